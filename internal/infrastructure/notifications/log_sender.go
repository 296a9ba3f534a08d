package notifications

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/providers"
)

// LogSender writes notifications to the log instead of delivering them.
// Used when no mail provider is configured.
type LogSender struct{}

var _ providers.Notifier = LogSender{}

// Send logs the notification
func (LogSender) Send(ctx context.Context, n *entities.Notification) error {
	log.Ctx(ctx).Info().
		Str("channel", string(entities.ChannelLog)).
		Str("type", string(n.Type)).
		Str("recipient_id", n.RecipientID).
		Str("recipient_email", n.RecipientEmail).
		Str("subject", n.Subject).
		Msg(n.Body)
	return nil
}
