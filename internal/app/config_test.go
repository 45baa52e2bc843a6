package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadFromFile(t *testing.T) {
	cfg, err := Load("testdata")
	require.NoError(t, err)

	require.Equal(t, 9180, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)

	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "cache-db.example.net", cfg.Database.Postgres.Host)
	require.Equal(t, 6543, cfg.Database.Postgres.Port)
	require.Equal(t, "rowcache", cfg.Database.Postgres.Database)
	require.Equal(t, "cache", cfg.Database.Postgres.Username)
	require.Equal(t, "cache-pass", cfg.Database.Postgres.Password)
	require.Equal(t, "require", cfg.Database.Postgres.Options["sslmode"])

	require.Equal(t, "sql", cfg.Cache.Backend)
	require.Equal(t, "public", cfg.Cache.Database)
	require.Equal(t, "app_cache", cfg.Cache.Table)
	require.Equal(t, 45*time.Second, cfg.Cache.DefaultTTL)
	require.False(t, cfg.Cache.DeleteExpired)

	require.True(t, cfg.Maintenance.Sweep.Enabled)
	require.Equal(t, "@every 10m", cfg.Maintenance.Sweep.Schedule)

	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
	require.True(t, cfg.Monitoring.HealthCheck.Enabled)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)

	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "./data/rowcache.sqlite", cfg.Database.Path)

	require.Equal(t, "sql", cfg.Cache.Backend)
	require.Empty(t, cfg.Cache.Database)
	require.Equal(t, "cache", cfg.Cache.Table)
	require.Equal(t, 300*time.Second, cfg.Cache.DefaultTTL)
	require.True(t, cfg.Cache.DeleteExpired)

	require.False(t, cfg.Maintenance.Sweep.Enabled)
	require.Equal(t, "@hourly", cfg.Maintenance.Sweep.Schedule)

	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.True(t, cfg.Monitoring.HealthCheck.Enabled)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ROWCACHE_SERVER_PORT", "9999")
	t.Setenv("ROWCACHE_CACHE_TABLE", "env_cache")
	t.Setenv("ROWCACHE_CACHE_DEFAULT_TTL", "90s")

	cfg, err := Load("testdata")
	require.NoError(t, err)

	require.Equal(t, 9999, cfg.Server.Port)
	require.Equal(t, "env_cache", cfg.Cache.Table)
	require.Equal(t, 90*time.Second, cfg.Cache.DefaultTTL)
}
