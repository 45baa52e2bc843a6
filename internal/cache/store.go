package cache

import (
	"context"
	"time"
)

// Store is the uniform cache contract consumers depend on regardless of the
// backing implementation. Absence of a key is reported through the boolean,
// never as an error.
type Store interface {
	// Get returns the value for key and whether an entry was found.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key. A ttl of zero or less means the store's
	// configured default applies.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes key. Removing a key that does not exist is not an
	// error.
	Delete(ctx context.Context, key string) error
	// Flush removes every entry. Intended for test isolation and
	// operational resets.
	Flush(ctx context.Context) error
}

// Purger is implemented by stores that can remove all expired entries in one
// pass, independent of reads. The maintenance sweeper feeds on it.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Stats summarises the current contents of a store.
type Stats struct {
	TotalRows   int64 `json:"total_rows"`
	ExpiredRows int64 `json:"expired_rows"`
}

// StatsReader is implemented by stores that can report row counts.
type StatsReader interface {
	Stats(ctx context.Context) (Stats, error)
}
