package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/providers"
	"github.com/zatekoja/teamfeedback/internal/infrastructure/observability"
)

// DashboardInvalidator drops cached dashboards after a write
type DashboardInvalidator interface {
	Invalidate(ctx context.Context, managerID, employeeID string)
}

// eventPublisher is embedded by services that emit feedback events.
// Publishing is best effort: failures are logged and never returned.
// Cached dashboards are dropped synchronously before the event goes out,
// so reads after a write never see the previous counts.
type eventPublisher struct {
	bus        providers.EventPublisher
	metrics    *observability.Metrics
	dashboards DashboardInvalidator
}

// SetDashboardInvalidator sets the dashboards dropped after each write
func (p *eventPublisher) SetDashboardInvalidator(dashboards DashboardInvalidator) {
	p.dashboards = dashboards
}

func (p *eventPublisher) invalidateDashboards(ctx context.Context, managerID, employeeID string) {
	if p.dashboards != nil {
		p.dashboards.Invalidate(ctx, managerID, employeeID)
	}
}

// SetEventBus sets the bus events are published on; nil disables publishing
func (p *eventPublisher) SetEventBus(bus providers.EventPublisher) {
	p.bus = bus
}

// SetMetrics sets the metrics events are counted on
func (p *eventPublisher) SetMetrics(metrics *observability.Metrics) {
	p.metrics = metrics
}

func (p *eventPublisher) publish(ctx context.Context, event *entities.FeedbackEvent) {
	if p.bus == nil {
		return
	}
	if err := p.bus.Publish(ctx, providers.EventChannelFeedback, event); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("type", string(event.Type)).Msg("failed to publish feedback event")
		return
	}
	observability.RecordEvent(ctx, p.metrics, string(event.Type))
}

// clock supplies timestamps at storage precision
type clock struct {
	now func() time.Time
}

// SetClock replaces the time source
func (c *clock) SetClock(now func() time.Time) {
	c.now = now
}

func (c *clock) timestamp() time.Time {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	return now().UTC().Truncate(time.Microsecond)
}

// after returns a timestamp strictly later than prev
func (c *clock) after(prev time.Time) time.Time {
	ts := c.timestamp()
	if !ts.After(prev) {
		ts = prev.UTC().Add(time.Microsecond)
	}
	return ts
}
