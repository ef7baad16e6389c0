// internal/sender/email.go
package sender

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"github.com/google/uuid"

	appErrors "github.com/reviewloop/reviewloop-backend/internal/errors"
	"github.com/reviewloop/reviewloop-backend/internal/model"
)

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
}

func NewSMTPConfig() *SMTPConfig {
	return &SMTPConfig{
		Host:     os.Getenv("MAIL_HOST"),
		Port:     os.Getenv("MAIL_PORT"),
		Username: os.Getenv("MAIL_USERNAME"),
		Password: os.Getenv("MAIL_PASSWORD"),
	}
}

// SMTPEmailSender dispatches mail over plain-auth SMTP.
type SMTPEmailSender struct {
	cfg  *SMTPConfig
	auth smtp.Auth
}

func NewSMTPEmailSender(cfg *SMTPConfig) *SMTPEmailSender {
	return &SMTPEmailSender{
		cfg:  cfg,
		auth: smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host),
	}
}

func (s *SMTPEmailSender) Send(from, to, subject, text, html string) (string, error) {
	addr := s.cfg.Host + ":" + s.cfg.Port

	contentType := `text/plain; charset="utf-8"`
	body := text
	if html != "" {
		contentType = `text/html; charset="utf-8"`
		body = html
	}

	headers := []string{
		"From: " + from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: " + contentType,
	}

	var msg strings.Builder
	for _, h := range headers {
		msg.WriteString(h + "\r\n")
	}
	msg.WriteString("\r\n" + body)

	if err := smtp.SendMail(addr, s.auth, from, []string{to}, []byte(msg.String())); err != nil {
		return "", appErrors.NewTransport(model.ChannelEmail, fmt.Errorf("smtp send to %s: %w", to, err))
	}
	return uuid.NewString(), nil
}

var _ EmailSender = (*SMTPEmailSender)(nil)
