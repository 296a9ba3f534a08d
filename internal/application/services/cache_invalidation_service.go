package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/providers"
)

// CacheInvalidationService drops cached dashboards when the feedback they
// aggregate changes
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
}

// Start begins listening for events and invalidating cache
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelFeedback)
	if err != nil {
		return fmt.Errorf("failed to subscribe to feedback events: %w", err)
	}

	go s.processEvents(eventChan)
	log.Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops the cache invalidation service
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	<-s.done
	log.Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.FeedbackEvent) {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := s.HandleEvent(ctx, event); err != nil {
				log.Warn().Err(err).Str("event_id", event.ID).Msg("failed to invalidate dashboard cache")
			}
			cancel()
		}
	}
}

// HandleEvent deletes the dashboards of the manager and employee named by
// a feedback event. Request events do not touch dashboards.
func (s *CacheInvalidationService) HandleEvent(ctx context.Context, event *entities.FeedbackEvent) error {
	switch event.Type {
	case entities.FeedbackEventCreated, entities.FeedbackEventUpdated, entities.FeedbackEventAcknowledged:
	default:
		return nil
	}

	return s.Invalidate(ctx, event.ManagerID, event.EmployeeID)
}

// Invalidate deletes the cached dashboards of managerID and employeeID
func (s *CacheInvalidationService) Invalidate(ctx context.Context, managerID, employeeID string) error {
	var keys []string
	if managerID != "" {
		keys = append(keys, providers.ManagerDashboardKey(managerID))
	}
	if employeeID != "" {
		keys = append(keys, providers.EmployeeDashboardKey(employeeID))
	}
	if len(keys) == 0 {
		return nil
	}

	if err := s.cache.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("failed to delete %v: %w", keys, err)
	}
	log.Debug().Strs("keys", keys).Msg("invalidated dashboard cache")
	return nil
}
