package checks

import (
	"context"
	"time"

	"github.com/rowcache/rowcache/internal/cache"
	"github.com/rowcache/rowcache/internal/monitoring"
)

// probeKey is never written, so a healthy store reports a plain miss.
const probeKey = "__rowcache_probe__"

// Store builds a readiness probe that exercises the cache read path. A miss
// counts as healthy; only a failing query (missing table, broken connection)
// marks the store down.
func Store(store cache.Store, timeout time.Duration) monitoring.Check {
	return monitoring.Check{
		Name: "cache_store",
		Run: func(ctx context.Context) monitoring.CheckResult {
			return probeStore(ctx, store, timeout)
		},
	}
}

func probeStore(ctx context.Context, store cache.Store, timeout time.Duration) monitoring.CheckResult {
	began := time.Now()
	if store == nil {
		return monitoring.CheckResult{
			Status:   monitoring.StatusDown,
			Details:  "cache store not configured",
			Duration: time.Since(began),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout(timeout))
	defer cancel()

	if _, _, err := store.Get(ctx, probeKey); err != nil {
		return monitoring.ResultFor("cache_store", err, time.Since(began))
	}

	return monitoring.CheckResult{Status: monitoring.StatusUp, Duration: time.Since(began)}
}
