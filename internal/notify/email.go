package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailSender is the mail transport seam. Implementations can be
// swapped (SendGrid, SMTP, a test recorder) without changing callers.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string // plain text
	HTML    string // optional HTML body
}

// SendGridSender sends email through the SendGrid API.
type SendGridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

func NewSendGridSender(cfg SendGridConfig) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	return &SendGridSender{
		client:    sendgrid.NewSendClient(cfg.APIKey),
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
	}
}

func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(msg.ToName, msg.To)

	html := msg.HTML
	if html == "" {
		html = msg.Body
	}
	message := mail.NewSingleEmail(from, msg.Subject, to, msg.Body, html)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	return nil
}

// LogSender is the fallback when no mail transport is configured: it
// logs the message instead of delivering it.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg EmailMessage) error {
	log.Printf("email (not sent, no transport configured) to=%s subject=%q", msg.To, msg.Subject)
	return nil
}
