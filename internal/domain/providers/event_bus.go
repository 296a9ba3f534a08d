package providers

import (
	"context"

	"github.com/zatekoja/teamfeedback/internal/domain/entities"
)

// EventPublisher publishes feedback lifecycle events
type EventPublisher interface {
	Publish(ctx context.Context, channel string, event *entities.FeedbackEvent) error
}

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	EventPublisher

	// Subscribe subscribes to events on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.FeedbackEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelFeedback carries every feedback and feedback request event
const EventChannelFeedback = "feedback:events"
