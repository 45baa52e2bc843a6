package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config contains database connection options. Host-based fields apply to the
// MySQL and PostgreSQL drivers; Path applies to SQLite.
type Config struct {
	Driver   string
	Path     string // SQLite database path when Driver == sqlite
	DSN      string // Optional DSN override for any driver
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	Options  map[string]string
}

// Open initialises a gorm.DB using the provided configuration.
func Open(cfg Config) (*gorm.DB, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" {
		driver = "sqlite"
	}

	switch driver {
	case "sqlite", "sqlite3":
		return openSQLite(cfg)
	case "mysql":
		return openMySQL(cfg)
	case "postgres", "postgresql":
		return openPostgres(cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// gormOptions silences gorm's own query echo; the app logs through zap.
func gormOptions() *gorm.Config {
	return &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)}
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func intOr(n, fallback int) int {
	if n == 0 {
		return fallback
	}
	return n
}

// DefaultCacheDatabase reports the database qualifier the cache should use
// when the operator does not configure one: the namespace the connected
// session resolves unqualified table names against.
func DefaultCacheDatabase(cfg Config) string {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "sqlite", "sqlite3":
		return "main"
	case "postgres", "postgresql":
		return "public"
	case "mysql":
		return strings.TrimSpace(cfg.Name)
	default:
		return ""
	}
}
