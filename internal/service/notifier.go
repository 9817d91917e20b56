package service

import (
	"context"
	"time"

	"buyonline/internal/model"

	"github.com/rs/zerolog/log"
)

// Notifier delivers an email asynchronously. worker.Dispatcher implements it.
type Notifier interface {
	Send(ctx context.Context, n model.Notification) error
}

// MailSettings holds the addresses used for catalog notifications.
type MailSettings struct {
	From     string
	Operator string
}

const notifyTimeout = 3 * time.Second

// notify enqueues n after the state change has committed. The request may
// already be cancelled by then, so the call gets its own deadline. Failures
// are logged and dropped.
func notify(ctx context.Context, n Notifier, msg model.Notification) {
	if n == nil || msg.To == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := n.Send(ctx, msg); err != nil {
		log.Warn().Err(err).Str("to", msg.To).Str("subject", msg.Subject).Msg("catalog: notification not enqueued")
	}
}
