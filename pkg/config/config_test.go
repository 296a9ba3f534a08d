package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AuthConfig(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL", "2h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL", "")
	t.Setenv("DB_NAME", "")
	t.Setenv("ALLOWED_ORIGINS", "")
	t.Setenv("DASHBOARD_CACHE_TTL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "team_feedback", cfg.Database.Database)
	assert.Equal(t, []string{"*"}, cfg.App.AllowedOrigins)
	assert.Equal(t, 60*time.Second, cfg.Dashboard.CacheTTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.RedisAddr())
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_AllowedOrigins(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.App.AllowedOrigins)
}

func TestDatabaseDSN(t *testing.T) {
	c := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", Database: "d", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=d sslmode=disable", c.DatabaseDSN())
}
