package notifications

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/providers"
)

// EmailSender delivers notifications through the Resend API
type EmailSender struct {
	client *resend.Client
	from   string
}

var _ providers.Notifier = (*EmailSender)(nil)

// NewEmailSender creates a Resend-backed sender
func NewEmailSender(apiKey, from string) (*EmailSender, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY must be set")
	}
	if from == "" {
		return nil, fmt.Errorf("sender address must be set")
	}

	return &EmailSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}, nil
}

// Send e-mails the notification to its recipient
func (s *EmailSender) Send(ctx context.Context, n *entities.Notification) error {
	if n.RecipientEmail == "" {
		return fmt.Errorf("notification %s has no recipient address", n.Type)
	}

	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{n.RecipientEmail},
		Subject: n.Subject,
		Text:    n.Body,
		Tags:    []resend.Tag{{Name: "type", Value: string(n.Type)}},
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to send %s email: %w", n.Type, err)
	}

	log.Info().
		Str("type", string(n.Type)).
		Str("recipient_id", n.RecipientID).
		Str("email_id", sent.Id).
		Msg("notification email sent")
	return nil
}
