package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/vantage_test")
	t.Setenv("APP_ENV", "")
	t.Setenv("LISTEN_ADDR", "")
	t.Setenv("REFRESH_WORKERS", "")
	t.Setenv("SNAPSHOT_REUSE_TTL", "")
	t.Setenv("OPENAI_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Zero(t, cfg.RefreshWorkers)
	assert.Zero(t, cfg.SnapshotReuseTTL)
	assert.Equal(t, 60*time.Second, cfg.OpenAITimeout)
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	assert.Error(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr, "partial config is still returned")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/vantage_test")
	t.Setenv("APP_ENV", "production")
	t.Setenv("REFRESH_WORKERS", "4")
	t.Setenv("SNAPSHOT_REUSE_TTL", "24h")
	t.Setenv("REFRESH_WORKERS_BOGUS", "x")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 4, cfg.RefreshWorkers)
	assert.Equal(t, 24*time.Hour, cfg.SnapshotReuseTTL)
}

func TestGetenvIntBadValue(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	assert.Equal(t, 7, getenvInt("SOME_INT", 7))
}
