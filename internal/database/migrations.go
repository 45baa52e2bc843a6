package database

import (
	"errors"

	"gorm.io/gorm"

	"github.com/rowcache/rowcache/internal/models"
)

// EnsureSchema creates or updates the cache table. The table name is applied
// through Table so one schema can host several independently named caches.
func EnsureSchema(db *gorm.DB, table string) error {
	if db == nil {
		return errors.New("database: nil gorm handle")
	}
	if table == "" {
		table = models.DefaultCacheTable
	}
	return db.Table(table).AutoMigrate(&models.CacheRow{})
}
