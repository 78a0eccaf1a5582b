// Package mailer delivers plain-text notification mail.
package mailer

import (
	"context"
	"fmt"

	pkglogger "github.com/damoang/caption-queue/pkg/logger"
	"gopkg.in/gomail.v2"
)

// Message is a single plain-text mail
type Message struct {
	Subject string
	Body    string
}

// Sender delivers a message to the configured recipient
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds SMTP transport settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Secure   bool // implicit TLS (port 465 style)
	From     string
	To       string
}

// dialer is the part of gomail.Dialer the sender needs
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender sends mail through an SMTP relay
type SMTPSender struct {
	dialer dialer
	from   string
	to     string
}

// NewSMTPSender creates an SMTP sender
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Secure

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPSender{dialer: d, from: from, to: cfg.To}
}

// Send implements Sender. gomail has no context support, so ctx is only
// checked before dialing.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", s.to, err)
	}
	return nil
}

// LogSender only logs messages. Used when no SMTP host is configured.
type LogSender struct{}

// Send implements Sender
func (LogSender) Send(_ context.Context, msg Message) error {
	pkglogger.GetLogger().Info().
		Str("subject", msg.Subject).
		Str("body", msg.Body).
		Msg("notification (smtp disabled)")
	return nil
}
