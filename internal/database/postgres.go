package database

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func openPostgres(cfg Config) (*gorm.DB, error) {
	dsn, err := postgresDSN(cfg)
	if err != nil {
		return nil, err
	}
	return gorm.Open(postgres.Open(dsn), gormOptions())
}

// postgresDSN renders a keyword/value conninfo string. Connection fields come
// first in a fixed order, then any extra options sorted by key.
func postgresDSN(cfg Config) (string, error) {
	if cfg.DSN != "" {
		return cfg.DSN, nil
	}
	if cfg.User == "" || cfg.Name == "" {
		return "", errors.New("postgres configuration requires user and database name")
	}

	pairs := []string{
		"host=" + valueOr(cfg.Host, "localhost"),
		fmt.Sprintf("port=%d", intOr(cfg.Port, 5432)),
		"user=" + cfg.User,
	}
	if cfg.Password != "" {
		pairs = append(pairs, "password="+cfg.Password)
	}
	pairs = append(pairs, "dbname="+cfg.Name)

	if _, ok := cfg.Options["sslmode"]; !ok {
		pairs = append(pairs, "sslmode=disable")
	}
	for _, key := range slices.Sorted(maps.Keys(cfg.Options)) {
		pairs = append(pairs, key+"="+cfg.Options[key])
	}

	return strings.Join(pairs, " "), nil
}
