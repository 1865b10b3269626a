package email

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog"

	"github.com/shopworks/auth-system/internal/core/ports"
)

// LogSender logs emails instead of sending them — used in development.
type LogSender struct {
	log zerolog.Logger
}

func (s *LogSender) Send(_ context.Context, msg ports.EmailNotification) error {
	s.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("email (development, not sent)")
	return nil
}

// ResendSender delivers emails through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

func (s *ResendSender) Send(ctx context.Context, msg ports.EmailNotification) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.Body,
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return nil
}

// NewSender returns a LogSender for development (or when no API key is
// configured), a ResendSender otherwise.
func NewSender(env, apiKey, from string, log zerolog.Logger) ports.EmailSender {
	if env == "development" || apiKey == "" {
		return &LogSender{log: log}
	}
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}
