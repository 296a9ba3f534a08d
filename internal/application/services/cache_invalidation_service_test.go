package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/teamfeedback/internal/application/services"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/providers"
)

func TestCacheInvalidationService_HandleEvent(t *testing.T) {
	tests := []struct {
		eventType entities.FeedbackEventType
		want      []string
	}{
		{eventType: entities.FeedbackEventCreated, want: []string{"dashboard:manager:m-1", "dashboard:employee:e-1"}},
		{eventType: entities.FeedbackEventUpdated, want: []string{"dashboard:manager:m-1", "dashboard:employee:e-1"}},
		{eventType: entities.FeedbackEventAcknowledged, want: []string{"dashboard:manager:m-1", "dashboard:employee:e-1"}},
		{eventType: entities.FeedbackEventRequestCreated, want: nil},
	}

	for _, tt := range tests {
		t.Run(string(tt.eventType), func(t *testing.T) {
			cache := NewMockCacheProvider()
			service := services.NewCacheInvalidationService(cache, NewMockEventBus())

			err := service.HandleEvent(context.Background(), &entities.FeedbackEvent{
				Type: tt.eventType, ManagerID: "m-1", EmployeeID: "e-1",
			})

			require.NoError(t, err)
			assert.Equal(t, tt.want, cache.Deleted())
		})
	}
}

func TestCacheInvalidationService_InvalidatesOnPublish(t *testing.T) {
	cache := NewMockCacheProvider()
	bus := NewMockEventBus()
	service := services.NewCacheInvalidationService(cache, bus)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, providers.ManagerDashboardKey("m-1"), []byte(`{}`), time.Minute))
	require.NoError(t, service.Start())
	defer service.Stop()

	require.NoError(t, bus.Publish(ctx, providers.EventChannelFeedback, &entities.FeedbackEvent{
		Type: entities.FeedbackEventAcknowledged, ManagerID: "m-1", EmployeeID: "e-1",
	}))

	assert.Eventually(t, func() bool {
		exists, _ := cache.Exists(ctx, providers.ManagerDashboardKey("m-1"))
		return !exists
	}, time.Second, 10*time.Millisecond)
}
