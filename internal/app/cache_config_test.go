package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSQLStoreConfigMapsFields(t *testing.T) {
	cacheCfg := CacheConfig{
		Database:      "  public ",
		Table:         " app_cache ",
		DefaultTTL:    42 * time.Second,
		DeleteExpired: false,
	}

	storeCfg := cacheCfg.SQLStoreConfig()
	require.Equal(t, "public", storeCfg.Database)
	require.Equal(t, "app_cache", storeCfg.Table)
	require.Equal(t, 42*time.Second, storeCfg.DefaultTTL)
	require.NotNil(t, storeCfg.DeleteExpired)
	require.False(t, *storeCfg.DeleteExpired)
}

func TestMemoryStoreConfigMapsFields(t *testing.T) {
	cacheCfg := CacheConfig{DefaultTTL: time.Minute, DeleteExpired: true}

	storeCfg := cacheCfg.MemoryStoreConfig()
	require.Equal(t, time.Minute, storeCfg.DefaultTTL)
	require.NotNil(t, storeCfg.DeleteExpired)
	require.True(t, *storeCfg.DeleteExpired)
}

func TestConnectionConfigSelectsDriverAuth(t *testing.T) {
	dbCfg := DatabaseConfig{
		Driver: "postgres",
		Postgres: DBEndpointConfig{
			Host:     "pg.example.com",
			Port:     6543,
			Database: "rowcache",
			Username: "cache",
			Password: "secret",
			Options:  map[string]string{"sslmode": "require"},
		},
		MySQL: DBEndpointConfig{Host: "unused"},
	}

	cfg := dbCfg.ConnectionConfig()
	require.Equal(t, "postgres", cfg.Driver)
	require.Equal(t, "pg.example.com", cfg.Host)
	require.Equal(t, 6543, cfg.Port)
	require.Equal(t, "rowcache", cfg.Name)
	require.Equal(t, "cache", cfg.User)
	require.Equal(t, "secret", cfg.Password)
	require.Equal(t, "require", cfg.Options["sslmode"])
}

func TestConnectionConfigSQLiteIgnoresHostAuth(t *testing.T) {
	dbCfg := DatabaseConfig{
		Driver:   "sqlite",
		Path:     "./data/cache.sqlite",
		Postgres: DBEndpointConfig{Host: "unused"},
	}

	cfg := dbCfg.ConnectionConfig()
	require.Equal(t, "sqlite", cfg.Driver)
	require.Equal(t, "./data/cache.sqlite", cfg.Path)
	require.Empty(t, cfg.Host)
	require.Empty(t, cfg.User)
}
