package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/domain/providers"
	"github.com/zatekoja/teamfeedback/internal/domain/repositories"
	"github.com/zatekoja/teamfeedback/internal/infrastructure/observability"
	"go.opentelemetry.io/otel/attribute"
)

const (
	cacheKindManagerDashboard  = "dashboard.manager"
	cacheKindEmployeeDashboard = "dashboard.employee"
)

// DashboardService aggregates feedback into dashboards. Results are cached
// when a cache is configured.
type DashboardService struct {
	feedback repositories.FeedbackRepository
	cache    providers.CacheProvider
	cacheTTL time.Duration
	metrics  *observability.Metrics
}

// NewDashboardService creates a new dashboard service; cache may be nil
func NewDashboardService(feedback repositories.FeedbackRepository, cache providers.CacheProvider, cacheTTL time.Duration) *DashboardService {
	return &DashboardService{
		feedback: feedback,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// SetMetrics sets the metrics cache lookups are counted on
func (s *DashboardService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// ManagerStats returns the statistics of the feedback managerID has written
func (s *DashboardService) ManagerStats(ctx context.Context, managerID string) (*entities.ManagerStats, error) {
	ctx, span := observability.StartSpan(ctx, "DashboardService.ManagerStats")
	defer span.End()
	observability.SetSpanAttributes(span, attribute.String("manager.id", managerID))

	key := providers.ManagerDashboardKey(managerID)
	var stats entities.ManagerStats
	if s.fromCache(ctx, key, cacheKindManagerDashboard, &stats) {
		return &stats, nil
	}

	items, err := s.feedback.ListByManager(ctx, managerID)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	result := ComputeManagerStats(managerID, items)
	s.toCache(ctx, key, result)
	return result, nil
}

// EmployeeDashboard returns the feedback timeline of employeeID
func (s *DashboardService) EmployeeDashboard(ctx context.Context, employeeID string) (*entities.EmployeeDashboard, error) {
	ctx, span := observability.StartSpan(ctx, "DashboardService.EmployeeDashboard")
	defer span.End()
	observability.SetSpanAttributes(span, attribute.String("employee.id", employeeID))

	key := providers.EmployeeDashboardKey(employeeID)
	var dashboard entities.EmployeeDashboard
	if s.fromCache(ctx, key, cacheKindEmployeeDashboard, &dashboard) {
		return &dashboard, nil
	}

	items, err := s.feedback.ListByEmployee(ctx, employeeID)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	result := ComputeEmployeeDashboard(employeeID, items)
	s.toCache(ctx, key, result)
	return result, nil
}

// Invalidate drops the cached dashboards of managerID and employeeID.
// Failures are logged; the entries then expire with their TTL.
func (s *DashboardService) Invalidate(ctx context.Context, managerID, employeeID string) {
	if s.cache == nil {
		return
	}

	var keys []string
	if managerID != "" {
		keys = append(keys, providers.ManagerDashboardKey(managerID))
	}
	if employeeID != "" {
		keys = append(keys, providers.EmployeeDashboardKey(employeeID))
	}
	if len(keys) == 0 {
		return
	}
	if err := s.cache.Delete(ctx, keys...); err != nil {
		log.Ctx(ctx).Warn().Err(err).Strs("keys", keys).Msg("dashboard cache invalidation failed")
	}
}

// ComputeManagerStats aggregates items. Every sentiment bucket is present;
// the rate is a percentage rounded to one decimal and 0 without feedback.
func ComputeManagerStats(managerID string, items []*entities.Feedback) *entities.ManagerStats {
	stats := &entities.ManagerStats{
		ManagerID:       managerID,
		FeedbackCount:   len(items),
		SentimentTrends: entities.NewSentimentTrends(),
	}

	for _, item := range items {
		stats.SentimentTrends[item.Sentiment]++
		if item.IsAcknowledged() {
			stats.AcknowledgedCount++
		}
	}
	stats.PendingCount = stats.FeedbackCount - stats.AcknowledgedCount
	stats.AcknowledgmentRate = acknowledgmentRate(stats.AcknowledgedCount, stats.FeedbackCount)

	return stats
}

// ComputeEmployeeDashboard builds the dashboard of employeeID from items
func ComputeEmployeeDashboard(employeeID string, items []*entities.Feedback) *entities.EmployeeDashboard {
	if items == nil {
		items = []*entities.Feedback{}
	}
	dashboard := &entities.EmployeeDashboard{
		EmployeeID:    employeeID,
		FeedbackCount: len(items),
		Timeline:      items,
	}
	for _, item := range items {
		if item.IsAcknowledged() {
			dashboard.AcknowledgedCount++
		}
	}
	dashboard.PendingCount = dashboard.FeedbackCount - dashboard.AcknowledgedCount
	return dashboard
}

func acknowledgmentRate(acknowledged, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(acknowledged)/float64(total)*1000) / 10
}

func (s *DashboardService) fromCache(ctx context.Context, key, kind string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, providers.ErrCacheMiss) {
			log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("dashboard cache read failed")
		}
		observability.RecordCacheMiss(ctx, s.metrics, kind)
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("discarding undecodable dashboard cache entry")
		observability.RecordCacheMiss(ctx, s.metrics, kind)
		return false
	}

	observability.RecordCacheHit(ctx, s.metrics, kind)
	return true
}

func (s *DashboardService) toCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil || s.cacheTTL <= 0 {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("failed to encode dashboard")
		return
	}
	if err := s.cache.Set(ctx, key, data, s.cacheTTL); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("dashboard cache write failed")
	}
}
