package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Querier is the slice of a relational connection the store needs: execute a
// single parameterized statement and observe rows or an error. *sql.DB,
// *sql.Tx and *sql.Conn all satisfy it, as does GORM's connection pool.
// Pooling, retries and timeouts stay with the injected implementation.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// DefaultTTL applies when neither the configuration nor an individual Set
// call supplies one.
const DefaultTTL = 300 * time.Second

// SQLConfig configures a SQLStore.
type SQLConfig struct {
	// Client executes the generated statements. Required.
	Client Querier
	// Database qualifies the table: the database name on MySQL, the schema
	// on PostgreSQL, the attached database (usually "main") on SQLite.
	// Required.
	Database string
	// Table holds the cache rows. Defaults to "cache".
	Table string
	// DeleteExpired controls whether Get removes an expired row it
	// encounters. nil means enabled. When disabled, Get still returns the
	// stale value; the policy governs cleanup, not staleness filtering.
	DeleteExpired *bool
	// DefaultTTL applies when Set receives a non-positive ttl. Defaults to
	// 300 seconds.
	DefaultTTL time.Duration
	// Dialect adapts quoting, bind variables and the expiry expression to
	// the backing driver. Defaults to DialectSQLite.
	Dialect Dialect
	// Now overrides the clock, primarily for tests.
	Now func() time.Time
}

// SQLStore implements Store against a relational table addressed as
// database.table. Every operation issues exactly one statement; Get may issue
// a sequential follow-up delete when it encounters an expired row. The store
// holds no mutable state after construction and is safe for concurrent use
// whenever the injected Querier is.
type SQLStore struct {
	client        Querier
	deleteExpired bool
	defaultTTL    time.Duration
	now           func() time.Time

	getQuery    string
	setQuery    string
	deleteQuery string
	flushQuery  string
	purgeQuery  string
	statsQuery  string
}

// NewSQLStore validates the configuration, applies defaults and precomputes
// the statement text. No I/O is performed; the first query runs on the first
// operation.
func NewSQLStore(cfg SQLConfig) (*SQLStore, error) {
	if cfg.Client == nil {
		return nil, errors.New("cache: sql client is required")
	}

	database := strings.TrimSpace(cfg.Database)
	if database == "" {
		return nil, errors.New("cache: database name is required")
	}
	if !ValidIdentifier(database) {
		return nil, fmt.Errorf("cache: invalid database identifier %q", database)
	}

	table := strings.TrimSpace(cfg.Table)
	if table == "" {
		table = "cache"
	}
	if !ValidIdentifier(table) {
		return nil, fmt.Errorf("cache: invalid table identifier %q", table)
	}

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

	dialect := cfg.Dialect
	if dialect.Name() == "" {
		dialect = DialectSQLite
	}

	qualified := dialect.QualifyTable(database, table)
	keyCol := dialect.QuoteIdentifier("key")
	valueCol := dialect.QuoteIdentifier("value")
	ttlCol := dialect.QuoteIdentifier("ttl")
	expiry := ttlCol + " + " + dialect.EpochExpr(dialect.QuoteIdentifier("created_at"))

	store := &SQLStore{
		client:        cfg.Client,
		deleteExpired: deleteExpired,
		defaultTTL:    defaultTTL,
		now:           now,

		getQuery: dialect.Bind(fmt.Sprintf(
			"SELECT %s, %s AS expiry_ts FROM %s WHERE %s = ?",
			valueCol, expiry, qualified, keyCol,
		)),
		setQuery: dialect.Bind(fmt.Sprintf(
			"INSERT INTO %s (%s, %s, %s) VALUES (?, ?, ?)",
			qualified, keyCol, valueCol, ttlCol,
		)),
		deleteQuery: dialect.Bind(fmt.Sprintf(
			"DELETE FROM %s WHERE %s = ?",
			qualified, keyCol,
		)),
		flushQuery: fmt.Sprintf("DELETE FROM %s", qualified),
		purgeQuery: dialect.Bind(fmt.Sprintf(
			"DELETE FROM %s WHERE %s <= ?",
			qualified, expiry,
		)),
		statsQuery: dialect.Bind(fmt.Sprintf(
			"SELECT COUNT(*), COALESCE(SUM(CASE WHEN %s <= ? THEN 1 ELSE 0 END), 0) FROM %s",
			expiry, qualified,
		)),
	}

	return store, nil
}

// Get reads the row for key and applies the expiry policy. A missing row is a
// miss, not an error. An expired row is removed first when read-repair is
// enabled; otherwise the stale value is served as-is.
func (s *SQLStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s == nil {
		return "", false, errors.New("cache: sql store not initialised")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.client.QueryContext(ctx, s.getQuery, key)
	if err != nil {
		return "", false, fmt.Errorf("cache: get %q: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return "", false, fmt.Errorf("cache: get %q: %w", key, err)
		}
		return "", false, nil
	}

	var (
		value    string
		expiryTS int64
	)
	if err := rows.Scan(&value, &expiryTS); err != nil {
		return "", false, fmt.Errorf("cache: get %q: %w", key, err)
	}
	// Release the connection before a possible repair delete; Close is
	// idempotent so the deferred call stays harmless.
	if err := rows.Close(); err != nil {
		return "", false, fmt.Errorf("cache: get %q: %w", key, err)
	}

	if s.now().UnixMilli() >= expiryTS*1000 {
		if !s.deleteExpired {
			return value, true, nil
		}
		if err := s.Delete(ctx, key); err != nil {
			return "", false, err
		}
		return "", false, nil
	}

	return value, true, nil
}

// Set inserts a fresh row for key. The storage layer assigns created_at via
// the column default; duplicate keys surface as the table's unique-constraint
// error. A non-positive ttl selects the configured default.
func (s *SQLStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if s == nil {
		return errors.New("cache: sql store not initialised")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	if _, err := s.client.ExecContext(ctx, s.setQuery, key, value, int64(ttl/time.Second)); err != nil {
		return fmt.Errorf("cache: set %q: %w", key, err)
	}
	return nil
}

// Delete removes the row for key. Deleting a key that has no row succeeds.
func (s *SQLStore) Delete(ctx context.Context, key string) error {
	if s == nil {
		return errors.New("cache: sql store not initialised")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := s.client.ExecContext(ctx, s.deleteQuery, key); err != nil {
		return fmt.Errorf("cache: delete %q: %w", key, err)
	}
	return nil
}

// Flush removes every row in the addressed table.
func (s *SQLStore) Flush(ctx context.Context) error {
	if s == nil {
		return errors.New("cache: sql store not initialised")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := s.client.ExecContext(ctx, s.flushQuery); err != nil {
		return fmt.Errorf("cache: flush: %w", err)
	}
	return nil
}

// PurgeExpired deletes every row whose derived expiry is at or before now and
// reports how many rows were removed. Reads never call this; it exists for
// the maintenance sweeper.
func (s *SQLStore) PurgeExpired(ctx context.Context) (int64, error) {
	if s == nil {
		return 0, errors.New("cache: sql store not initialised")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := s.client.ExecContext(ctx, s.purgeQuery, s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("cache: purge expired: %w", err)
	}

	purged, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("cache: purge expired: %w", err)
	}
	return purged, nil
}

// Stats reports total and expired row counts in a single aggregate query.
func (s *SQLStore) Stats(ctx context.Context) (Stats, error) {
	if s == nil {
		return Stats{}, errors.New("cache: sql store not initialised")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.client.QueryContext(ctx, s.statsQuery, s.now().Unix())
	if err != nil {
		return Stats{}, fmt.Errorf("cache: stats: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Stats{}, fmt.Errorf("cache: stats: %w", err)
		}
		return Stats{}, errors.New("cache: stats: aggregate returned no row")
	}

	var stats Stats
	if err := rows.Scan(&stats.TotalRows, &stats.ExpiredRows); err != nil {
		return Stats{}, fmt.Errorf("cache: stats: %w", err)
	}
	return stats, rows.Err()
}

var (
	_ Store       = (*SQLStore)(nil)
	_ Purger      = (*SQLStore)(nil)
	_ StatsReader = (*SQLStore)(nil)
)
