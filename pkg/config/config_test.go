package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 20, cfg.Scanner.Concurrency)
	assert.Equal(t, 30, cfg.Scanner.MinHistory)
	assert.Equal(t, "1y", cfg.Scanner.DefaultPeriod)
	assert.Equal(t, 15*time.Second, cfg.Provider.FetchTimeout)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("ENV", "production")
	t.Setenv("SCAN_CONCURRENCY", "8")
	t.Setenv("PROVIDER_FETCH_TIMEOUT", "5s")
	t.Setenv("PROVIDER_RATE_LIMIT", "2.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 8, cfg.Scanner.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Provider.FetchTimeout)
	assert.Equal(t, 2.5, cfg.Provider.RateLimit)
}

func TestLoad_InvalidEnv(t *testing.T) {
	t.Setenv("ENV", "sandbox")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ENV must be one of")
}

func TestLoad_InvalidConcurrency(t *testing.T) {
	t.Setenv("SCAN_CONCURRENCY", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCAN_CONCURRENCY")
}

func TestLoad_MalformedNumbersFallBack(t *testing.T) {
	t.Setenv("SCAN_CONCURRENCY", "not-a-number")
	t.Setenv("PROVIDER_RATE_LIMIT", "nope")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Scanner.Concurrency)
	assert.Equal(t, 5.0, cfg.Provider.RateLimit)
}
