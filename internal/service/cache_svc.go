package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// SourceCacheTTL bounds how stale a cached source-info response may get.
// Mutations invalidate eagerly, so the TTL only matters for writes that
// bypass this process.
const SourceCacheTTL = 5 * time.Minute

// CacheService provides a Redis cache-aside layer for source lookups.
type CacheService struct {
	rdb    *redis.Client
	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCacheService creates a new CacheService. If redisURL is empty or the
// connection fails, it returns a CacheService with a nil client and all
// operations become no-ops.
func NewCacheService(redisURL string) *CacheService {
	if redisURL == "" {
		log.Println("redis: no URL configured, caching disabled")
		return &CacheService{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Printf("redis: invalid URL %q, caching disabled: %v", redisURL, err)
		return &CacheService{}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("redis: connection failed, caching disabled: %v", err)
		return &CacheService{}
	}

	log.Println("redis: connected, caching enabled")
	return &CacheService{rdb: rdb}
}

// Client returns the underlying Redis client (for health checks). May be nil.
func (c *CacheService) Client() *redis.Client {
	return c.rdb
}

// GetSource retrieves a cached source-info response. Returns nil if not
// cached or caching is disabled.
func (c *CacheService) GetSource(ctx context.Context, sourceID string) ([]byte, error) {
	if c.rdb == nil {
		return nil, nil
	}
	data, err := c.rdb.Get(ctx, sourceKey(sourceID)).Bytes()
	if err == redis.Nil {
		c.misses.Add(1)
		return nil, nil
	}
	if err == nil {
		c.hits.Add(1)
	}
	return data, err
}

// Hits reports the number of cache hits since startup.
func (c *CacheService) Hits() uint64 { return c.hits.Load() }

// Misses reports the number of cache misses since startup.
func (c *CacheService) Misses() uint64 { return c.misses.Load() }

// SetSource stores a source-info response in cache.
func (c *CacheService) SetSource(ctx context.Context, sourceID string, data interface{}) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, sourceKey(sourceID), b, SourceCacheTTL).Err()
}

// InvalidateSource removes a source from cache (called after posts or votes
// change).
func (c *CacheService) InvalidateSource(ctx context.Context, sourceID string) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, sourceKey(sourceID)).Err()
}

// Close shuts down the Redis connection.
func (c *CacheService) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func sourceKey(sourceID string) string {
	return fmt.Sprintf("source:%s", sourceID)
}
