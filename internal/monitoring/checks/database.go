// Package checks holds the concrete probes the server registers at startup.
package checks

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/rowcache/rowcache/internal/monitoring"
)

const defaultTimeout = 2 * time.Second

// Database builds a readiness probe that pings the connection pool behind
// the gorm handle.
func Database(db *gorm.DB, timeout time.Duration) monitoring.Check {
	return monitoring.Check{
		Name: "database",
		Run: func(ctx context.Context) monitoring.CheckResult {
			return pingDatabase(ctx, db, timeout)
		},
	}
}

func pingDatabase(ctx context.Context, db *gorm.DB, timeout time.Duration) monitoring.CheckResult {
	began := time.Now()
	if db == nil {
		return monitoring.CheckResult{
			Status:   monitoring.StatusDown,
			Details:  "database not configured",
			Duration: time.Since(began),
		}
	}

	sqlDB, err := db.DB()
	if err != nil {
		return monitoring.ResultFor("database", err, time.Since(began))
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout(timeout))
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return monitoring.ResultFor("database", err, time.Since(began))
	}

	return monitoring.CheckResult{Status: monitoring.StatusUp, Duration: time.Since(began)}
}

func probeTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return defaultTimeout
	}
	return d
}
