// Package email implements the SMTP delivery channel for notification
// emails.
package email

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/wneessen/go-mail"

	"github.com/mbotrack/mbo-tracker/internal/core/ports"
)

// Config carries the SMTP transport settings. When Enabled is false the
// mailer logs each message instead of sending, which keeps local
// development working without an SMTP server.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// ObserverBCC receives a blind copy of every message for audit.
	ObserverBCC string
	Enabled     bool
}

// Mailer sends transactional email over SMTP with STARTTLS.
type Mailer struct {
	client *mail.Client
	cfg    Config
	log    zerolog.Logger
}

// NewMailer builds the SMTP client. The connection is established lazily
// per send, so a misconfigured server surfaces on first delivery rather
// than at startup.
func NewMailer(cfg Config, log zerolog.Logger) (*Mailer, error) {
	m := &Mailer{cfg: cfg, log: log}
	if !cfg.Enabled {
		return m, nil
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	m.client = client
	return m, nil
}

var _ ports.Mailer = (*Mailer)(nil)

// Send delivers one message with text and HTML alternative bodies. The
// observer mailbox is blind-copied on every message.
func (m *Mailer) Send(ctx context.Context, msg ports.Email) error {
	if !m.cfg.Enabled {
		m.log.Info().
			Strs("to", msg.To).
			Str("subject", msg.Subject).
			Msg("email delivery disabled, message dropped")
		return nil
	}

	out := mail.NewMsg()
	if err := out.From(m.cfg.From); err != nil {
		return fmt.Errorf("from address: %w", err)
	}
	if err := out.To(msg.To...); err != nil {
		return fmt.Errorf("to addresses: %w", err)
	}
	if len(msg.CC) > 0 {
		if err := out.Cc(msg.CC...); err != nil {
			return fmt.Errorf("cc addresses: %w", err)
		}
	}
	if m.cfg.ObserverBCC != "" {
		if err := out.Bcc(m.cfg.ObserverBCC); err != nil {
			return fmt.Errorf("bcc address: %w", err)
		}
	}
	out.Subject(msg.Subject)
	out.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		out.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	}

	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
