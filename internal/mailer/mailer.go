// Package mailer sends calendar invites by e-mail.
package mailer

import (
	"fmt"

	"github.com/samyuktha-jana/SAP-hackathon/internal/config"

	"gopkg.in/gomail.v2"
)

type Mailer interface {
	// Send mails body to every recipient, attaching attachment when set.
	Send(to []string, subject, body, attachment string) error
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// New returns an SMTP mailer, or a no-op one when mail is disabled.
func New(cfg config.MailConfig) Mailer {
	if !cfg.Enabled || cfg.Host == "" {
		return Noop{}
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpMailer) Send(to []string, subject, body, attachment string) error {
	if len(to) == 0 {
		return nil
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	if attachment != "" {
		m.Attach(attachment)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %v: %w", to, err)
	}
	return nil
}

// Noop drops every message.
type Noop struct{}

func (Noop) Send([]string, string, string, string) error { return nil }
