package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/mercatto/backend/internal/apperrors"
)

// Sender delivers one HTML email. Fire and forget from the caller's
// perspective: no retries here
type Sender interface {
	Send(ctx context.Context, recipient string, subject string, htmlBody string) error
}

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender delivers mail over plain SMTP with optional auth.
// STARTTLS is negotiated by net/smtp when the server offers it
type SMTPSender struct {
	cfg Config
}

func NewSMTP(cfg Config) *SMTPSender {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	return &SMTPSender{cfg: cfg}
}

func (s *SMTPSender) Send(_ context.Context, recipient string, subject string, htmlBody string) error {
	msg := strings.Join([]string{
		"From: " + s.cfg.From,
		"To: " + recipient,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		`Content-Type: text/html; charset="utf-8"`,
		"",
		htmlBody,
	}, "\r\n")

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{recipient}, []byte(msg)); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrEmailDelivery, err)
	}

	return nil
}
