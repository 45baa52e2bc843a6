package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookups counts read attempts by outcome: hit, miss or error.
var Lookups = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rowcache_cache_lookups_total",
		Help: "Cache read attempts by outcome",
	},
	[]string{"result"},
)

// Mutations counts writes, deletes and flushes by outcome: ok or error.
var Mutations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "rowcache_cache_operations_total",
		Help: "Cache mutations by operation and outcome",
	},
	[]string{"operation", "result"},
)

// RowsPurged counts expired rows removed by maintenance sweeps.
var RowsPurged = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "rowcache_rows_purged_total",
		Help: "Expired cache rows deleted by sweeps",
	},
)

// HTTPLatency observes request duration per route template.
var HTTPLatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "rowcache_api_latency_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "path", "status"},
)
