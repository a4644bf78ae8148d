package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

const analyticsKey = "analytics:dashboard"

// AnalyticsCache keeps the last analytics result in redis so repeated
// dashboard loads do not re-run every aggregation. A nil cache is valid and
// means caching is disabled.
type AnalyticsCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewAnalyticsCache returns nil when no address is configured.
func NewAnalyticsCache(addr string) *AnalyticsCache {
	if addr == "" {
		return nil
	}
	return &AnalyticsCache{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: 60 * time.Second,
	}
}

// Get returns the cached analytics document, or false on miss or any redis
// failure. Cache trouble must never break the endpoint.
func (c *AnalyticsCache) Get(ctx context.Context) (json.RawMessage, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, analyticsKey).Bytes()
	if err != nil {
		return nil, false
	}
	return json.RawMessage(raw), true
}

// Set stores the analytics document for the cache TTL. Failures are ignored.
func (c *AnalyticsCache) Set(ctx context.Context, v interface{}) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, analyticsKey, raw, c.ttl)
}
