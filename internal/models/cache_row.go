package models

import (
	"time"
)

// DefaultCacheTable is the table name used when the operator does not
// configure one.
const DefaultCacheTable = "cache"

// CacheRow represents a single cached value persisted in the relational store.
// Rows are immutable: Set inserts, Get reads, expiry or Delete removes. The
// effective expiry is derived at query time as created_at + ttl and is never
// stored.
type CacheRow struct {
	Key       string    `gorm:"column:key;primaryKey;size:256"`
	Value     string    `gorm:"column:value;type:text"`
	TTL       int64     `gorm:"column:ttl;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:CURRENT_TIMESTAMP"`
}

// TableName keeps GORM provisioning aligned with the default table identifier.
func (CacheRow) TableName() string {
	return DefaultCacheTable
}

// ExpiresAt reports the derived expiry instant for a loaded row.
func (r CacheRow) ExpiresAt() time.Time {
	return r.CreatedAt.Add(time.Duration(r.TTL) * time.Second)
}
