package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/providers"
	"github.com/zatekoja/teamfeedback/internal/domain/repositories"
)

// NotificationService turns feedback events into user notifications
type NotificationService struct {
	users    repositories.UserRepository
	notifier providers.Notifier
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewNotificationService creates a new notification service
func NewNotificationService(users repositories.UserRepository, notifier providers.Notifier, eventBus providers.EventBus) *NotificationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &NotificationService{
		users:    users,
		notifier: notifier,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start begins listening for feedback events
func (s *NotificationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelFeedback)
	if err != nil {
		return fmt.Errorf("failed to subscribe to feedback events: %w", err)
	}

	go s.processEvents(eventChan)
	log.Info().Msg("notification service started")
	return nil
}

// Stop stops the notification service and waits for the event loop to exit
func (s *NotificationService) Stop() {
	s.cancel()
	<-s.done
	log.Info().Msg("notification service stopped")
}

func (s *NotificationService) processEvents(eventChan <-chan *entities.FeedbackEvent) {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := s.HandleEvent(ctx, event); err != nil {
				log.Warn().Err(err).Str("event_id", event.ID).Str("type", string(event.Type)).Msg("failed to send notification")
			}
			cancel()
		}
	}
}

// HandleEvent notifies the party interested in event. Events without a
// recipient are ignored.
func (s *NotificationService) HandleEvent(ctx context.Context, event *entities.FeedbackEvent) error {
	var (
		recipientID, actorID string
		kind                 entities.NotificationType
	)
	switch event.Type {
	case entities.FeedbackEventCreated:
		recipientID, actorID, kind = event.EmployeeID, event.ManagerID, entities.NotificationFeedbackReceived
	case entities.FeedbackEventAcknowledged:
		recipientID, actorID, kind = event.ManagerID, event.EmployeeID, entities.NotificationFeedbackAcknowledged
	case entities.FeedbackEventRequestCreated:
		recipientID, actorID, kind = event.ManagerID, event.EmployeeID, entities.NotificationFeedbackRequested
	default:
		return nil
	}

	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		return fmt.Errorf("failed to load recipient %s: %w", recipientID, err)
	}
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", actorID, err)
	}

	return s.notifier.Send(ctx, BuildNotification(kind, recipient, actor))
}

// BuildNotification renders a notification of kind about actor for recipient
func BuildNotification(kind entities.NotificationType, recipient, actor *entities.User) *entities.Notification {
	n := &entities.Notification{
		Type:           kind,
		RecipientID:    recipient.ID,
		RecipientEmail: recipient.Email,
		RecipientName:  recipient.Name,
	}

	switch kind {
	case entities.NotificationFeedbackReceived:
		n.Subject = fmt.Sprintf("New feedback from %s", actor.Name)
		n.Body = fmt.Sprintf("Hi %s,\n\n%s has shared new feedback with you. Sign in to read and acknowledge it.", recipient.Name, actor.Name)
	case entities.NotificationFeedbackAcknowledged:
		n.Subject = fmt.Sprintf("%s acknowledged your feedback", actor.Name)
		n.Body = fmt.Sprintf("Hi %s,\n\n%s has read and acknowledged the feedback you wrote.", recipient.Name, actor.Name)
	case entities.NotificationFeedbackRequested:
		n.Subject = fmt.Sprintf("%s asked for feedback", actor.Name)
		n.Body = fmt.Sprintf("Hi %s,\n\n%s would like your feedback. Open your pending requests to respond.", recipient.Name, actor.Name)
	}

	return n
}
