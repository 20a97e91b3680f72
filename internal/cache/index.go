// index.go provides the category index cache. The retrieval side builds a
// per-category semantic index lazily from the chunk table; this side only
// guarantees that any mutation of a category's chunks (document ingested,
// document deleted) drops the cached projection so the next read rebuilds
// it from the source of truth.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// indexKeyPrefix is the Valkey key prefix for cached category indexes.
	indexKeyPrefix = "catindex:"

	// DefaultIndexTTL bounds staleness even if an invalidation is missed.
	DefaultIndexTTL = 30 * time.Minute
)

// Invalidator is the one obligation the ingestion pipeline has toward the
// index cache. Implementations must be idempotent and safe to call from
// concurrently finishing ingestion jobs.
type Invalidator interface {
	Invalidate(ctx context.Context, categoryID uuid.UUID)
}

// IndexCache manages the serialized per-category index in Valkey.
type IndexCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIndexCache creates a category index cache backed by the given client.
func NewIndexCache(client *redis.Client, ttl time.Duration) *IndexCache {
	if ttl == 0 {
		ttl = DefaultIndexTTL
	}
	return &IndexCache{client: client, ttl: ttl}
}

// Get retrieves the serialized index for a category. Returns false on miss.
func (ic *IndexCache) Get(ctx context.Context, categoryID uuid.UUID) ([]byte, bool) {
	val, err := ic.client.Get(ctx, indexKeyPrefix+categoryID.String()).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("index cache get error", "category_id", categoryID, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores the serialized index for a category with the configured TTL.
func (ic *IndexCache) Set(ctx context.Context, categoryID uuid.UUID, data []byte) {
	if err := ic.client.Set(ctx, indexKeyPrefix+categoryID.String(), data, ic.ttl).Err(); err != nil {
		slog.Warn("index cache set error", "category_id", categoryID, "error", err)
	}
}

// Invalidate drops the cached index for a category. A failed delete is
// logged, never fatal: the cache is a projection and the TTL bounds how
// long a stale entry can survive.
func (ic *IndexCache) Invalidate(ctx context.Context, categoryID uuid.UUID) {
	if err := ic.client.Del(ctx, indexKeyPrefix+categoryID.String()).Err(); err != nil {
		slog.Warn("index cache invalidate error", "category_id", categoryID, "error", err)
		return
	}
	slog.Debug("index cache invalidated", "category_id", categoryID)
}

var _ Invalidator = (*IndexCache)(nil)
