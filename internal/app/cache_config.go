package app

import (
	"strings"

	"github.com/rowcache/rowcache/internal/cache"
)

// SQLStoreConfig converts the application cache configuration into the cache
// package representation. Client, Dialect and a fallback Database are filled
// in by the caller once the connection is open.
func (c CacheConfig) SQLStoreConfig() cache.SQLConfig {
	deleteExpired := c.DeleteExpired
	return cache.SQLConfig{
		Database:      strings.TrimSpace(c.Database),
		Table:         strings.TrimSpace(c.Table),
		DefaultTTL:    c.DefaultTTL,
		DeleteExpired: &deleteExpired,
	}
}

// MemoryStoreConfig converts the application cache configuration into the
// in-memory backend representation.
func (c CacheConfig) MemoryStoreConfig() cache.MemoryConfig {
	deleteExpired := c.DeleteExpired
	return cache.MemoryConfig{
		DefaultTTL:    c.DefaultTTL,
		DeleteExpired: &deleteExpired,
	}
}
