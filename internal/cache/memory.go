package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

// MemoryConfig configures a MemoryStore. The policy knobs mirror SQLConfig so
// the backends stay interchangeable behind Store.
type MemoryConfig struct {
	// DeleteExpired controls whether Get removes an expired entry it
	// encounters. nil means enabled.
	DeleteExpired *bool
	// DefaultTTL applies when Set receives a non-positive ttl. Defaults to
	// 300 seconds.
	DefaultTTL time.Duration
	// Now overrides the clock, primarily for tests.
	Now func() time.Time
}

type memoryEntry struct {
	value     string
	ttl       time.Duration
	createdAt time.Time
}

func (e memoryEntry) expiresAt() time.Time {
	return e.createdAt.Add(e.ttl)
}

// MemoryStore is a process-local Store with the same TTL semantics as
// SQLStore. It backs development setups and handler tests; nothing survives a
// restart. Safe for concurrent use.
type MemoryStore struct {
	mu            sync.Mutex
	entries       map[string]memoryEntry
	deleteExpired bool
	defaultTTL    time.Duration
	now           func() time.Time
}

// NewMemoryStore constructs an empty in-process store.
func NewMemoryStore(cfg MemoryConfig) *MemoryStore {
	deleteExpired := true
	if cfg.DeleteExpired != nil {
		deleteExpired = *cfg.DeleteExpired
	}

	defaultTTL := cfg.DefaultTTL
	if defaultTTL <= 0 {
		defaultTTL = DefaultTTL
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &MemoryStore{
		entries:       make(map[string]memoryEntry),
		deleteExpired: deleteExpired,
		defaultTTL:    defaultTTL,
		now:           now,
	}
}

// Get returns the entry for key, applying the same expiry policy as the SQL
// backing: expired entries are removed (or served stale when cleanup is
// disabled).
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	if s == nil {
		return "", false, errors.New("cache: memory store not initialised")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return "", false, nil
	}

	if !s.now().Before(entry.expiresAt()) {
		if !s.deleteExpired {
			return entry.value, true, nil
		}
		delete(s.entries, key)
		return "", false, nil
	}

	return entry.value, true, nil
}

// Set stores value under key. A non-positive ttl selects the configured
// default. Unlike the SQL backing there is no uniqueness constraint, so a
// repeated Set overwrites.
func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if s == nil {
		return errors.New("cache: memory store not initialised")
	}

	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{
		value:     value,
		ttl:       ttl,
		createdAt: s.now(),
	}
	return nil
}

// Delete removes key; removing an absent key succeeds.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	if s == nil {
		return errors.New("cache: memory store not initialised")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}

// Flush discards every entry.
func (s *MemoryStore) Flush(context.Context) error {
	if s == nil {
		return errors.New("cache: memory store not initialised")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make(map[string]memoryEntry)
	return nil
}

// PurgeExpired removes every expired entry and reports how many were dropped.
func (s *MemoryStore) PurgeExpired(context.Context) (int64, error) {
	if s == nil {
		return 0, errors.New("cache: memory store not initialised")
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var purged int64
	for key, entry := range s.entries {
		if !now.Before(entry.expiresAt()) {
			delete(s.entries, key)
			purged++
		}
	}
	return purged, nil
}

var (
	_ Store  = (*MemoryStore)(nil)
	_ Purger = (*MemoryStore)(nil)
)
