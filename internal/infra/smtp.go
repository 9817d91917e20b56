package infra

import (
	"context"
	"fmt"
	"net/smtp"

	"buyonline/internal/config"
	"buyonline/internal/model"

	"github.com/jordan-wright/email"
	"github.com/rs/zerolog/log"
)

// Mailer delivers notifications over SMTP. Every send goes through a
// circuit breaker so an unreachable relay fails fast.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
	from     string
	breaker  *CircuitBreaker
	send     func(e *email.Email, addr string, auth smtp.Auth) error
}

func NewMailer(cfg *config.Config) *Mailer {
	cb := DefaultCBConfig()
	cb.OnStateChange = func(from, to CBState) {
		log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("mailer: circuit breaker state change")
	}
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
		from:     cfg.MailFrom,
		breaker:  NewCircuitBreaker(cb),
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// BreakerState is reported by the health endpoint.
func (m *Mailer) BreakerState() CBState { return m.breaker.State() }

// Send delivers n. An empty From falls back to MAIL_FROM.
func (m *Mailer) Send(ctx context.Context, n model.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := email.NewEmail()
	e.From = n.From
	if e.From == "" {
		e.From = m.from
	}
	e.To = []string{n.To}
	e.Subject = n.Subject
	e.Text = []byte(n.Body)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	return m.breaker.Execute(func() error {
		if err := m.send(e, m.addr, auth); err != nil {
			return fmt.Errorf("mailer: send to %s: %w", n.To, err)
		}
		return nil
	})
}
