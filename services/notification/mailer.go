package notification

import (
	"context"
	"fmt"

	"patitas/config"
	"patitas/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// SMTPSender is the production EmailSender backed by the clinic's SMTP relay.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender builds a sender from the loaded configuration.
func NewSMTPSender() *SMTPSender {
	cfg := config.AppConfig
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.SMTPFrom,
	}
}

// Send delivers a single message synchronously. The context is honored up
// front; gomail itself dials without one.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if to == "" {
		return "", fmt.Errorf("recipient address is empty")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return "", fmt.Errorf("smtp send to %s failed: %w", to, err)
	}

	id := uuid.New().String()
	utils.GetLogger().Debug("Email sent", zap.String("to", to), zap.String("messageId", id))
	return id, nil
}
