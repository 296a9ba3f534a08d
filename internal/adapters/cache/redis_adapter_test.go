package cache

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/teamfeedback/internal/domain/providers"
	redisclient "github.com/zatekoja/teamfeedback/internal/infrastructure/clients/redis"
)

func TestNamespaced(t *testing.T) {
	keys := namespaced(providers.ManagerDashboardKey("m-1"), providers.EmployeeDashboardKey("e-1"))
	assert.Equal(t, []string{"teamfeedback:dashboard:manager:m-1", "teamfeedback:dashboard:employee:e-1"}, keys)
}

func TestRedisAdapter_SetRejectsNonPositiveTTL(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()
	adapter := NewRedisAdapter(redisclient.NewClientFromRedis(rdb))

	err := adapter.Set(context.Background(), "k", []byte("v"), 0)
	assert.ErrorContains(t, err, "ttl must be positive")
}

func TestRedisAdapter_DeleteNothing(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer rdb.Close()
	adapter := NewRedisAdapter(redisclient.NewClientFromRedis(rdb))

	assert.NoError(t, adapter.Delete(context.Background()))
}
