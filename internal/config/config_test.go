package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TS_ENVIRONMENT", "production")
	t.Setenv("TS_LISTEN_ADDRESS", ":9090")
	t.Setenv("TS_STORAGE_DRIVER", "memory")
	t.Setenv("TS_MAX_PAGE_SIZE", "50")
	t.Setenv("TS_COMPLETED_RETENTION", "720h")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.IsEnvProduction())
	assert.Equal(t, ":9090", cfg.ListenAddress)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, 50, cfg.MaxPageSize)
	assert.Equal(t, 720*time.Hour, cfg.CompletedRetention)
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.False(t, cfg.IsEnvProduction())
	assert.Equal(t, ":8080", cfg.ListenAddress)
	assert.Equal(t, StorageDriverPostgres, cfg.StorageDriver)
	assert.Equal(t, 100, cfg.MaxPageSize)
	assert.Zero(t, cfg.CompletedRetention)
	assert.Equal(t, time.Hour, cfg.SweepInterval)
}
