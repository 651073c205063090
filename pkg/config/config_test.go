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

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout())
	assert.Equal(t, 45*time.Second, cfg.ProviderTimeout())
	assert.Equal(t, time.Duration(0), cfg.CacheTTL())
	assert.Equal(t, int64(10<<20), cfg.MaxBodyBytes)
	assert.Equal(t, "https://web.archive.org/web/2/", cfg.ArchivePrefix)
	assert.Empty(t, cfg.PostgresURL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("FETCH_TIMEOUT_SECONDS", "5")
	t.Setenv("CACHE_TTL_HOURS", "48")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout())
	assert.Equal(t, 48*time.Hour, cfg.CacheTTL())
	assert.Equal(t, 3, cfg.RedisDB)
}
