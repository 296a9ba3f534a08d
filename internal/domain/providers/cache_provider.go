package providers

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Get when the key is absent or expired.
var ErrCacheMiss = errors.New("cache miss")

// CacheProvider defines the interface for caching operations
type CacheProvider interface {
	// Get retrieves a value from cache; ErrCacheMiss when absent
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value that expires after ttl
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes values from cache
	Delete(ctx context.Context, keys ...string) error

	// Exists checks if a key exists in cache
	Exists(ctx context.Context, key string) (bool, error)
}

// Dashboard cache keys
const (
	CacheKeyManagerDashboardPrefix  = "dashboard:manager:"
	CacheKeyEmployeeDashboardPrefix = "dashboard:employee:"
)

// ManagerDashboardKey returns the cache key of a manager's stats
func ManagerDashboardKey(managerID string) string {
	return CacheKeyManagerDashboardPrefix + managerID
}

// EmployeeDashboardKey returns the cache key of an employee's dashboard
func EmployeeDashboardKey(employeeID string) string {
	return CacheKeyEmployeeDashboardPrefix + employeeID
}
