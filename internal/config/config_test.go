package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/faturaflow")
	t.Setenv("ENVIRONMENT", "development")
	t.Setenv("JWT_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Hour, cfg.RatesTTL)
	assert.Equal(t, time.Minute, cfg.RatesRetry)
	assert.Equal(t, 20, cfg.NotificationPageSize)
	assert.NotEmpty(t, cfg.JWTSecret)
	assert.True(t, cfg.AutoMigrate)
}

func TestLoad_ProductionNeedsSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/faturaflow")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/faturaflow")
	t.Setenv("RATES_TTL", "15m")
	t.Setenv("RATES_RETRY_INTERVAL", "30s")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("AUTO_MIGRATE", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, cfg.RatesTTL)
	assert.Equal(t, 30*time.Second, cfg.RatesRetry)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.False(t, cfg.AutoMigrate)
}
