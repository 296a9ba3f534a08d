package providers

import (
	"context"

	"github.com/zatekoja/teamfeedback/internal/domain/entities"
)

// Notifier delivers a rendered notification to its recipient.
type Notifier interface {
	Send(ctx context.Context, notification *entities.Notification) error
}
