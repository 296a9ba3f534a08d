package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/providers"
	redisclient "github.com/zatekoja/teamfeedback/internal/infrastructure/clients/redis"
)

const subscriberBuffer = 100

// RedisEventBus implements the EventBus interface using Redis Pub/Sub
type RedisEventBus struct {
	client        *redisclient.Client
	subscriptions map[string]*redis.PubSub
	subscribers   map[string]map[chan *entities.FeedbackEvent]struct{}
	mu            sync.RWMutex
	ctx           context.Context
	cancel        context.CancelFunc
}

var _ providers.EventBus = (*RedisEventBus)(nil)

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) *RedisEventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:        client,
		subscriptions: make(map[string]*redis.PubSub),
		subscribers:   make(map[string]map[chan *entities.FeedbackEvent]struct{}),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Publish publishes an event to all subscribers
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.FeedbackEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug().Str("channel", channel).Str("event_id", event.ID).Str("type", string(event.Type)).Msg("published event")
	return nil
}

// Subscribe subscribes to events on a channel. The returned channel is
// closed when ctx is done or the bus is closed.
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.FeedbackEvent, error) {
	b.mu.Lock()
	if _, exists := b.subscriptions[channel]; !exists {
		pubsub := b.client.Client().Subscribe(b.ctx, channel)
		b.subscriptions[channel] = pubsub
		go b.receiveMessages(channel, pubsub)
	}
	b.mu.Unlock()

	eventChan := b.addSubscriber(channel)

	go func() {
		select {
		case <-ctx.Done():
		case <-b.ctx.Done():
		}
		b.removeSubscriber(channel, eventChan)
	}()

	return eventChan, nil
}

func (b *RedisEventBus) addSubscriber(channel string) chan *entities.FeedbackEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.FeedbackEvent]struct{})
	}

	eventChan := make(chan *entities.FeedbackEvent, subscriberBuffer)
	b.subscribers[channel][eventChan] = struct{}{}

	log.Info().Str("channel", channel).Int("subscribers", len(b.subscribers[channel])).Msg("subscribed to channel")
	return eventChan
}

// receiveMessages receives messages from Redis and broadcasts them to subscribers
func (b *RedisEventBus) receiveMessages(channel string, pubsub *redis.PubSub) {
	defer func() {
		if err := b.cleanupChannel(channel); err != nil {
			log.Error().Err(err).Str("channel", channel).Msg("failed to clean up channel")
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			b.dispatch(channel, msg.Payload)
		}
	}
}

// dispatch decodes payload and hands it to every subscriber of channel
// without blocking; a full subscriber misses the event.
func (b *RedisEventBus) dispatch(channel, payload string) {
	var event entities.FeedbackEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("failed to unmarshal event")
		return
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for subscriber := range b.subscribers[channel] {
		select {
		case subscriber <- &event:
		default:
			log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("subscriber channel full, skipping event")
		}
	}
}

func (b *RedisEventBus) removeSubscriber(channel string, eventChan chan *entities.FeedbackEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, exists := b.subscribers[channel]
	if !exists {
		return
	}

	if _, ok := subscribers[eventChan]; !ok {
		return
	}

	delete(subscribers, eventChan)
	close(eventChan)

	if len(subscribers) == 0 {
		delete(b.subscribers, channel)
		if pubsub, ok := b.subscriptions[channel]; ok {
			_ = pubsub.Close()
			delete(b.subscriptions, channel)
			log.Info().Str("channel", channel).Msg("closed subscription")
		}
	}
}

func (b *RedisEventBus) cleanupChannel(channel string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subscribers, exists := b.subscribers[channel]; exists {
		for subscriber := range subscribers {
			close(subscriber)
		}
		delete(b.subscribers, channel)
	}

	if pubsub, ok := b.subscriptions[channel]; ok {
		delete(b.subscriptions, channel)
		if err := pubsub.Close(); err != nil {
			return fmt.Errorf("failed to close subscription %s: %w", channel, err)
		}
		log.Info().Str("channel", channel).Msg("closed subscription")
	}

	return nil
}

// Unsubscribe unsubscribes from a channel
func (b *RedisEventBus) Unsubscribe(ctx context.Context, channel string) error {
	return b.cleanupChannel(channel)
}

// Close closes the event bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.RLock()
	channels := make([]string, 0, len(b.subscribers))
	for channel := range b.subscribers {
		channels = append(channels, channel)
	}
	b.mu.RUnlock()

	var errs []error
	for _, channel := range channels {
		if err := b.cleanupChannel(channel); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing event bus: %v", errs)
	}

	log.Info().Msg("event bus closed")
	return nil
}
