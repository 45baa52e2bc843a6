package app

import (
	"strings"

	"github.com/rowcache/rowcache/internal/database"
)

// ConnectionConfig converts the application database configuration into the
// database package representation, selecting the host parameters that match
// the configured driver.
func (c DatabaseConfig) ConnectionConfig() database.Config {
	cfg := database.Config{
		Driver: strings.TrimSpace(c.Driver),
		Path:   strings.TrimSpace(c.Path),
		DSN:    strings.TrimSpace(c.DSN),
	}

	switch strings.ToLower(cfg.Driver) {
	case "postgres", "postgresql":
		applyHostConfig(&cfg, c.Postgres)
	case "mysql":
		applyHostConfig(&cfg, c.MySQL)
	}

	return cfg
}

func applyHostConfig(cfg *database.Config, ep DBEndpointConfig) {
	cfg.Host = strings.TrimSpace(ep.Host)
	cfg.Port = ep.Port
	cfg.Name = strings.TrimSpace(ep.Database)
	cfg.User = strings.TrimSpace(ep.Username)
	cfg.Password = ep.Password
	cfg.Options = ep.Options
}
