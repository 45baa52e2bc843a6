package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

// Config represents the runtime configuration for the rowcache server.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Maintenance MaintenanceConfig `mapstructure:"maintenance"`
	Monitoring  MonitoringConfig  `mapstructure:"monitoring"`
}

// ServerConfig holds the listener settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
}

// DatabaseConfig selects the backing database and how to reach it. A non-empty
// DSN wins over the per-driver fields.
type DatabaseConfig struct {
	Driver   string           `mapstructure:"driver"`
	Path     string           `mapstructure:"path"`
	DSN      string           `mapstructure:"dsn"`
	Postgres DBEndpointConfig `mapstructure:"postgres"`
	MySQL    DBEndpointConfig `mapstructure:"mysql"`
}

// DBEndpointConfig carries the address, credentials, and driver options for a
// networked database.
type DBEndpointConfig struct {
	Host     string            `mapstructure:"host"`
	Port     int               `mapstructure:"port"`
	Database string            `mapstructure:"database"`
	Username string            `mapstructure:"username"`
	Password string            `mapstructure:"password"`
	Options  map[string]string `mapstructure:"options"`
}

// CacheConfig selects the cache backend and its row-store policy.
type CacheConfig struct {
	Backend       string        `mapstructure:"backend"`
	Database      string        `mapstructure:"database"`
	Table         string        `mapstructure:"table"`
	DefaultTTL    time.Duration `mapstructure:"default_ttl"`
	DeleteExpired bool          `mapstructure:"delete_expired"`
}

// MaintenanceConfig groups background upkeep settings.
type MaintenanceConfig struct {
	Sweep SweepConfig `mapstructure:"sweep"`
}

// SweepConfig controls the scheduled purge of expired cache rows.
type SweepConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// MonitoringConfig gates the operational endpoints.
type MonitoringConfig struct {
	Prometheus  PrometheusConfig  `mapstructure:"prometheus"`
	HealthCheck HealthCheckConfig `mapstructure:"health_check"`
}

// PrometheusConfig controls the metrics scrape route.
type PrometheusConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// HealthCheckConfig switches the liveness and readiness routes.
type HealthCheckConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// defaults covers every key so a missing config file still yields a
// runnable server.
var defaults = map[string]any{
	"server.port":      8000,
	"server.log_level": "info",

	"database.driver": "sqlite",
	"database.path":   "./data/rowcache.sqlite",

	"cache.backend":        "sql",
	"cache.database":       "",
	"cache.table":          "cache",
	"cache.default_ttl":    "300s",
	"cache.delete_expired": true,

	"maintenance.sweep.enabled":  false,
	"maintenance.sweep.schedule": "@hourly",

	"monitoring.prometheus.enabled":   true,
	"monitoring.prometheus.endpoint":  "/metrics",
	"monitoring.health_check.enabled": true,
}

// Load reads config.yaml, applies ROWCACHE_* environment overrides, and
// fills the gaps from defaults. Extra paths are searched before ./config.
func Load(paths ...string) (*Config, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath("./config")
	for _, path := range paths {
		v.AddConfigPath(path)
	}

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix("ROWCACHE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: read file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, withDurationStrings); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	return &cfg, nil
}

// withDurationStrings lets yaml values like "300s" decode into time.Duration
// fields.
func withDurationStrings(dc *mapstructure.DecoderConfig) {
	dc.TagName = "mapstructure"
	dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}
