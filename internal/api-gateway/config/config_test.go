package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.True(t, cfg.SagaLogEnabled)
	assert.Equal(t, 300*time.Second, cfg.UserCacheTTL)
	assert.Equal(t, 600*time.Second, cfg.PetCacheTTL)

	p := cfg.RemotePolicy()
	assert.Equal(t, 3*time.Second, p.Deadline)
	assert.Equal(t, 2, p.MaxRetries)
	assert.Equal(t, 300*time.Millisecond, p.Backoff(0))
	assert.Equal(t, 600*time.Millisecond, p.Backoff(1))
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REMOTE_DEADLINE", "500ms")
	t.Setenv("REMOTE_MAX_RETRIES", "0")
	t.Setenv("REMOTE_BACKOFF_STEP", "10ms")
	t.Setenv("SAGA_LOG_ENABLED", "false")
	t.Setenv("PET_CACHE_TTL", "1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.SagaLogEnabled)
	assert.Equal(t, time.Minute, cfg.PetCacheTTL)

	p := cfg.RemotePolicy()
	assert.Equal(t, 500*time.Millisecond, p.Deadline)
	assert.Equal(t, 0, p.MaxRetries)
	assert.Equal(t, 20*time.Millisecond, p.Backoff(1))
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("REMOTE_DEADLINE", "soon")

	_, err := Load()
	require.Error(t, err)
}
