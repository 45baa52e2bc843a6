package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rowcache/rowcache/internal/cache"
	apperr "github.com/rowcache/rowcache/pkg/errors"
	"github.com/rowcache/rowcache/pkg/logger"
	"github.com/rowcache/rowcache/pkg/metrics"
	"github.com/rowcache/rowcache/pkg/response"
)

// CacheHandler exposes the cache store over HTTP.
type CacheHandler struct {
	store cache.Store
	log   *zap.Logger
}

// NewCacheHandler constructs the handler backing the /api/cache routes.
func NewCacheHandler(store cache.Store) (*CacheHandler, error) {
	if store == nil {
		return nil, apperr.New("handlers: cache store is required")
	}
	return &CacheHandler{
		store: store,
		log:   logger.WithComponent("handlers.cache"),
	}, nil
}

type setCacheRequest struct {
	// Value is a pointer so an explicitly empty payload is distinguishable
	// from an absent field.
	Value      *string `json:"value" validate:"required"`
	TTLSeconds int64   `json:"ttl_seconds" validate:"gte=0"`
}

type cacheEntryResponse struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Get returns the live value stored under the key, or 404 on a miss. Expired
// rows surface as misses unless the store is configured to serve stale values.
func (h *CacheHandler) Get(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		response.Error(c, apperr.BadRequest("cache key is required"))
		return
	}

	value, ok, err := h.store.Get(c.Request.Context(), key)
	if err != nil {
		metrics.Lookups.WithLabelValues("error").Inc()
		h.log.Error("cache get failed", zap.String("key", key), zap.Error(err))
		response.Error(c, apperr.ErrInternal.Wrap(err))
		return
	}
	if !ok {
		metrics.Lookups.WithLabelValues("miss").Inc()
		response.Error(c, apperr.ErrKeyNotFound)
		return
	}

	metrics.Lookups.WithLabelValues("hit").Inc()
	response.OK(c, cacheEntryResponse{Key: key, Value: value})
}

// Set stores a value under the key. A zero or omitted ttl_seconds applies the
// store's default TTL.
func (h *CacheHandler) Set(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		response.Error(c, apperr.BadRequest("cache key is required"))
		return
	}

	var req setCacheRequest
	if !bindAndValidate(c, &req) {
		return
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	if err := h.store.Set(c.Request.Context(), key, *req.Value, ttl); err != nil {
		metrics.Mutations.WithLabelValues("set", "error").Inc()
		h.log.Error("cache set failed", zap.String("key", key), zap.Error(err))
		response.Error(c, apperr.ErrInternal.Wrap(err))
		return
	}

	metrics.Mutations.WithLabelValues("set", "ok").Inc()
	response.Created(c, gin.H{"key": key})
}

// Delete removes the key. Deleting an absent key succeeds.
func (h *CacheHandler) Delete(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		response.Error(c, apperr.BadRequest("cache key is required"))
		return
	}

	if err := h.store.Delete(c.Request.Context(), key); err != nil {
		metrics.Mutations.WithLabelValues("delete", "error").Inc()
		h.log.Error("cache delete failed", zap.String("key", key), zap.Error(err))
		response.Error(c, apperr.ErrInternal.Wrap(err))
		return
	}

	metrics.Mutations.WithLabelValues("delete", "ok").Inc()
	response.OK(c, gin.H{"key": key, "deleted": true})
}

// Flush removes every entry from the store.
func (h *CacheHandler) Flush(c *gin.Context) {
	if err := h.store.Flush(c.Request.Context()); err != nil {
		metrics.Mutations.WithLabelValues("flush", "error").Inc()
		h.log.Error("cache flush failed", zap.Error(err))
		response.Error(c, apperr.ErrInternal.Wrap(err))
		return
	}

	metrics.Mutations.WithLabelValues("flush", "ok").Inc()
	response.OK(c, gin.H{"flushed": true})
}

// Stats reports row counts for stores that expose them.
func (h *CacheHandler) Stats(c *gin.Context) {
	reader, ok := h.store.(cache.StatsReader)
	if !ok {
		response.Error(c, apperr.ErrNotFound)
		return
	}

	stats, err := reader.Stats(c.Request.Context())
	if err != nil {
		h.log.Error("cache stats failed", zap.Error(err))
		response.Error(c, apperr.ErrInternal.Wrap(err))
		return
	}

	response.OK(c, stats)
}
