package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/teamfeedback/internal/application/services"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/providers"
)

func TestNotificationService_HandleEvent(t *testing.T) {
	tests := []struct {
		name          string
		eventType     entities.FeedbackEventType
		wantRecipient string
		wantType      entities.NotificationType
	}{
		{name: "feedback created notifies employee", eventType: entities.FeedbackEventCreated, wantRecipient: "e-1", wantType: entities.NotificationFeedbackReceived},
		{name: "acknowledgment notifies manager", eventType: entities.FeedbackEventAcknowledged, wantRecipient: "m-1", wantType: entities.NotificationFeedbackAcknowledged},
		{name: "request notifies manager", eventType: entities.FeedbackEventRequestCreated, wantRecipient: "m-1", wantType: entities.NotificationFeedbackRequested},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			notifier := new(MockNotifier)
			service := services.NewNotificationService(users, notifier, NewMockEventBus())

			users.On("GetByID", mock.Anything, "m-1").Return(newManager("m-1"), nil)
			users.On("GetByID", mock.Anything, "e-1").Return(newEmployee("e-1", strPtr("m-1")), nil)
			notifier.On("Send", mock.Anything, mock.MatchedBy(func(n *entities.Notification) bool {
				return n.RecipientID == tt.wantRecipient && n.Type == tt.wantType &&
					n.RecipientEmail == tt.wantRecipient+"@example.com" && n.Subject != ""
			})).Return(nil)

			err := service.HandleEvent(context.Background(), &entities.FeedbackEvent{
				Type: tt.eventType, ManagerID: "m-1", EmployeeID: "e-1",
			})

			require.NoError(t, err)
			notifier.AssertExpectations(t)
		})
	}

	t.Run("updates are silent", func(t *testing.T) {
		notifier := new(MockNotifier)
		service := services.NewNotificationService(new(MockUserRepository), notifier, NewMockEventBus())

		err := service.HandleEvent(context.Background(), &entities.FeedbackEvent{Type: entities.FeedbackEventUpdated})

		assert.NoError(t, err)
		notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
	})
}

func TestBuildNotification(t *testing.T) {
	n := services.BuildNotification(entities.NotificationFeedbackReceived, newEmployee("e-1", nil), newManager("m-1"))

	assert.Equal(t, "New feedback from Manager m-1", n.Subject)
	assert.Contains(t, n.Body, "Hi Employee e-1")
	assert.Equal(t, "e-1@example.com", n.RecipientEmail)
}

func TestNotificationService_StartStop(t *testing.T) {
	users := new(MockUserRepository)
	notifier := new(MockNotifier)
	bus := NewMockEventBus()
	service := services.NewNotificationService(users, notifier, bus)

	sent := make(chan *entities.Notification, 1)
	users.On("GetByID", mock.Anything, "m-1").Return(newManager("m-1"), nil)
	users.On("GetByID", mock.Anything, "e-1").Return(newEmployee("e-1", strPtr("m-1")), nil)
	notifier.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		sent <- args.Get(1).(*entities.Notification)
	}).Return(errors.New("smtp unavailable"))

	require.NoError(t, service.Start())
	require.NoError(t, bus.Publish(context.Background(), providers.EventChannelFeedback, &entities.FeedbackEvent{
		Type: entities.FeedbackEventCreated, ManagerID: "m-1", EmployeeID: "e-1",
	}))

	select {
	case n := <-sent:
		assert.Equal(t, "e-1", n.RecipientID)
	case <-time.After(time.Second):
		t.Fatal("notification was not sent")
	}

	service.Stop()
}
