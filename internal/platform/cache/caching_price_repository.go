// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"stock_dashboard/internal/feature/prices/domain/entity"
	"stock_dashboard/internal/feature/prices/usecase"
)

// CachingPriceRepository decorates a PriceRepository with Redis caching of
// series reads. It is transparent: series queries are cached per
// (stock, range, limit) and invalidated whenever bars for that stock are
// upserted. Counts and stats always hit the database since they feed the
// fetch accounting.
type CachingPriceRepository struct {
	inner     usecase.PriceRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
}

var _ usecase.PriceRepository = (*CachingPriceRepository)(nil)

// NewCachingPriceRepository decorates a PriceRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "prices".
func NewCachingPriceRepository(rdb *redis.Client, ttl time.Duration, inner usecase.PriceRepository, namespace string) *CachingPriceRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "prices"
	}
	return &CachingPriceRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
	}
}

// UpsertBatch inserts or updates bars and invalidates the cache entries of
// every affected stock.
func (c *CachingPriceRepository) UpsertBatch(ctx context.Context, bars []entity.PriceBar) error {
	if err := c.inner.UpsertBatch(ctx, bars); err != nil {
		return err
	}
	if c.rdb == nil || len(bars) == 0 {
		return nil
	}

	seen := map[uint]struct{}{}
	for _, b := range bars {
		if _, ok := seen[b.StockID]; ok {
			continue
		}
		seen[b.StockID] = struct{}{}
		// Best effort: a failed invalidation only means a stale read until TTL
		_ = c.deleteByPattern(ctx, c.cacheKeyPrefix(b.StockID)+"*")
	}
	return nil
}

// FindByStock retrieves bars, checking cache first then falling back to the database.
func (c *CachingPriceRepository) FindByStock(ctx context.Context, stockID uint, start, end time.Time, limit int) ([]entity.PriceBar, error) {
	if c.rdb == nil {
		return c.inner.FindByStock(ctx, stockID, start, end, limit)
	}

	key := c.cacheKey(stockID, start, end, limit)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var out []entity.PriceBar
		if err := json.Unmarshal(b, &out); err == nil {
			return out, nil
		}
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
	}

	out, err := c.inner.FindByStock(ctx, stockID, start, end, limit)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(out); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}

	return out, nil
}

// CountByStock always hits the database.
func (c *CachingPriceRepository) CountByStock(ctx context.Context, stockID uint) (int64, error) {
	return c.inner.CountByStock(ctx, stockID)
}

// Stats always hits the database.
func (c *CachingPriceRepository) Stats(ctx context.Context, stockID uint) (entity.PriceStats, error) {
	return c.inner.Stats(ctx, stockID)
}

// cacheKey generates a cache key for a specific series query.
func (c *CachingPriceRepository) cacheKey(stockID uint, start, end time.Time, limit int) string {
	return fmt.Sprintf("%s:%d:%d:%d:%d",
		c.namespace,
		stockID,
		start.Unix(),
		end.Unix(),
		limit,
	)
}

// cacheKeyPrefix generates a prefix for invalidating one stock's cache entries.
func (c *CachingPriceRepository) cacheKeyPrefix(stockID uint) string {
	return fmt.Sprintf("%s:%d:", c.namespace, stockID)
}

// deleteByPattern deletes all cache keys matching a given pattern using SCAN.
func (c *CachingPriceRepository) deleteByPattern(ctx context.Context, pattern string) error {
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
