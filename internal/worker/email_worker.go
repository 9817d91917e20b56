package worker

// email_worker.go
// Processes email jobs from QueueEmail: catalog notifications to the
// platform operator and to sellers.

import (
	"context"
	"encoding/json"
	"fmt"

	"buyonline/internal/model"

	"github.com/rs/zerolog/log"
)

// MailSender is implemented by infra.Mailer.
type MailSender interface {
	Send(ctx context.Context, n model.Notification) error
}

// EmailWorker delivers queued notifications through a MailSender.
type EmailWorker struct {
	mailer MailSender
}

func NewEmailWorker(mailer MailSender) *EmailWorker {
	return &EmailWorker{mailer: mailer}
}

func (w *EmailWorker) Handle(ctx context.Context, raw json.RawMessage) error {
	var n model.Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return fmt.Errorf("%w: invalid email payload: %v", ErrPermanent, err)
	}
	if n.To == "" {
		return fmt.Errorf("%w: empty recipient", ErrPermanent)
	}
	if err := w.mailer.Send(ctx, n); err != nil {
		return err
	}
	log.Info().Str("to", n.To).Str("subject", n.Subject).Msg("email_worker: notification sent")
	return nil
}
