// Package cache provides caching decorators for the price fetcher.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"beta_backend/internal/feature/beta/domain/entity"
	"beta_backend/internal/feature/beta/usecase"
)

// TTLFunc returns the expiry to apply to an entry written now.
type TTLFunc func() time.Duration

// FixedTTL returns a TTLFunc that always yields d.
func FixedTTL(d time.Duration) TTLFunc {
	return func() time.Duration { return d }
}

// CachingPriceFetcher decorates a PriceFetcher with Redis caching.
// Entries are keyed by (symbol, start date, end date).
type CachingPriceFetcher struct {
	inner     usecase.PriceFetcher
	rdb       *redis.Client
	ttl       TTLFunc
	namespace string
}

var _ usecase.PriceFetcher = (*CachingPriceFetcher)(nil)

// NewCachingPriceFetcher decorates a PriceFetcher with Redis caching.
// If ttl is nil, entries live for 5 minutes. If namespace is empty, it uses "prices".
func NewCachingPriceFetcher(rdb *redis.Client, ttl TTLFunc, inner usecase.PriceFetcher, namespace string) *CachingPriceFetcher {
	if ttl == nil {
		ttl = FixedTTL(5 * time.Minute)
	}
	if namespace == "" {
		namespace = "prices"
	}
	return &CachingPriceFetcher{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// FetchAdjustedClose returns prices from Redis when present, otherwise from the inner fetcher.
func (c *CachingPriceFetcher) FetchAdjustedClose(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
	// Bypass cache if Redis is not configured
	if c.rdb == nil {
		return c.inner.FetchAdjustedClose(ctx, symbol, start, end)
	}

	key := c.cacheKey(symbol, start, end)

	// 1) Check cache
	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.PricePoint
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	// 2) Fallback to provider
	out, err := c.inner.FetchAdjustedClose(ctx, symbol, start, end)
	if err != nil {
		return nil, err
	}

	// 3) Store in cache (best effort)
	if ttl := c.ttl(); ttl > 0 {
		if b, err := json.Marshal(out); err == nil {
			_ = c.rdb.Set(ctx, key, b, ttl).Err()
		}
	}

	return out, nil
}

// Invalidate removes every cached range for symbol.
func (c *CachingPriceFetcher) Invalidate(ctx context.Context, symbol string) error {
	if c.rdb == nil {
		return nil
	}
	return c.deleteByPattern(ctx, c.cacheKeyPrefix(symbol)+"*")
}

// cacheKey generates a cache key for a specific query.
func (c *CachingPriceFetcher) cacheKey(symbol string, start, end time.Time) string {
	return fmt.Sprintf("%s:%s:%s:%s",
		c.namespace,
		safe(symbol),
		start.Format(time.DateOnly),
		end.Format(time.DateOnly),
	)
}

// cacheKeyPrefix generates a prefix for invalidating related cache entries.
func (c *CachingPriceFetcher) cacheKeyPrefix(symbol string) string {
	return fmt.Sprintf("%s:%s:", c.namespace, safe(symbol))
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingPriceFetcher) deleteByPattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, cur, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = cur
		if cursor == 0 {
			break
		}
	}
	return nil
}

// safe escapes characters that are problematic for Redis keys.
func safe(s string) string {
	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	s = strings.ReplaceAll(s, "*", "_")
	return s
}
