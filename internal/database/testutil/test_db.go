package testutil

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rowcache/rowcache/internal/database"
	"github.com/rowcache/rowcache/internal/models"
)

// TestDBOption customises MustOpenDB.
type TestDBOption func(*options)

type options struct {
	table     string
	provision bool
}

// WithTable provisions the cache schema under the given table name instead
// of the default one.
func WithTable(table string) TestDBOption {
	return func(o *options) { o.table = table }
}

// WithoutSchema skips provisioning for tests that exercise the missing-table
// paths.
func WithoutSchema() TestDBOption {
	return func(o *options) { o.provision = false }
}

// MustOpenDB opens a private in-memory SQLite database and provisions the
// cache table unless told otherwise. Every call gets a uniquely named memory
// database, so parallel tests never observe each other's rows. The connection
// closes via t.Cleanup.
func MustOpenDB(t *testing.T, opts ...TestDBOption) *gorm.DB {
	t.Helper()

	o := options{table: models.DefaultCacheTable, provision: true}
	for _, opt := range opts {
		opt(&o)
	}

	db, err := database.Open(database.Config{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if o.provision {
		require.NoError(t, database.EnsureSchema(db, o.table))
	}

	return db
}
