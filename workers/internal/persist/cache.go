// Package persist stores pipeline results: every result is cached in Redis
// with a TTL, and successful results are additionally mirrored to the
// relationship graph. The cache is authoritative; the graph is best effort.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pulsegraph-io/pulsegraph-stack/workers/pkg/event"
)

// DefaultResultTTL matches the result retention the analytics surface expects.
const DefaultResultTTL = time.Hour

// Cache writes results to Redis under processed:{worker_type}:{id} keys.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache builds a result cache. A non-positive ttl uses DefaultResultTTL.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultResultTTL
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

// Store writes one result with the configured TTL. Error results are stored
// the same way as successes; the cache is the audit trail for both.
func (c *Cache) Store(ctx context.Context, workerType string, res *event.Result) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encoding result %s: %w", res.ID, err)
	}

	key := event.CacheKey(workerType, res.ID)
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("caching result %s: %w", res.ID, err)
	}
	return nil
}
