// Package mail delivers HTML email over SMTP.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"

	"blog_backend/internal/platform/config"
)

// Mailer sends one HTML message.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// smtpClient is the part of *gomail.Client the SMTP mailer uses.
type smtpClient interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	client smtpClient
	from   string
}

// NewSMTPMailer creates an SMTP mailer from config.
func NewSMTPMailer(cfg config.Mail) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return NewSMTPMailerWithClient(client, cfg.From), nil
}

// NewSMTPMailerWithClient wires a mailer around an existing client.
func NewSMTPMailerWithClient(client smtpClient, from string) *SMTPMailer {
	return &SMTPMailer{client: client, from: from}
}

// Send builds the message and delivers it.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender %q: %w", m.from, err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient %q: %w", to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

// LogMailer only logs messages. It is used when no SMTP host is configured.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer. A nil logger falls back to slog.Default.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMailer{logger: logger}
}

// Send logs the message instead of delivering it.
func (m *LogMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.logger.InfoContext(ctx, "mail not sent, smtp disabled", "to", to, "subject", subject, "body", htmlBody)
	return nil
}

// New returns an SMTP mailer when SMTP_HOST is set, a LogMailer otherwise.
func New(cfg config.Mail) (Mailer, error) {
	if cfg.Host == "" {
		return NewLogMailer(nil), nil
	}
	return NewSMTPMailer(cfg)
}
