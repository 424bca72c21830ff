package provider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"fxreader/internal/ratetable"
)

// CachedTableFetcher wraps a TableFetcher with Redis caching. Tables are stored in
// their CSV encoding; failed fetches are never cached.
type CachedTableFetcher struct {
	fetcher TableFetcher
	cache   *redis.Client
	ttl     time.Duration
	logger  *zap.SugaredLogger
}

var _ TableFetcher = (*CachedTableFetcher)(nil)

// NewCachedTableFetcher creates a new CachedTableFetcher. A nil cache disables caching.
func NewCachedTableFetcher(fetcher TableFetcher, cache *redis.Client, ttl time.Duration, logger *zap.SugaredLogger) *CachedTableFetcher {
	return &CachedTableFetcher{
		fetcher: fetcher,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// CacheKey returns the Redis key under which the table for location is stored.
func CacheKey(location string) string {
	sum := sha256.Sum256([]byte(location))
	return fmt.Sprintf("table_cache:{%s}", hex.EncodeToString(sum[:8]))
}

// FetchTable returns the cached table for location, fetching and caching it on a miss.
func (p *CachedTableFetcher) FetchTable(ctx context.Context, location string) (*ratetable.Table, error) {
	if p.cache == nil {
		return p.fetcher.FetchTable(ctx, location)
	}

	key := CacheKey(location)

	// check cache
	vals, err := p.cache.HMGet(ctx, key, "table", "fetched_at").Result()
	if err == nil && len(vals) == 2 && vals[0] != nil {
		if raw, ok := vals[0].(string); ok {
			tbl, err2 := ratetable.ParseCSV(strings.NewReader(raw))
			if err2 == nil {
				return tbl, nil
			}
			p.logger.Warnw("discarding corrupt cached table", "key", key, "error", err2)
		}
	}

	return p.refresh(ctx, location, key)
}

// Warm fetches the table from the wrapped fetcher and replaces the cached copy.
func (p *CachedTableFetcher) Warm(ctx context.Context, location string) (*ratetable.Table, error) {
	if p.cache == nil {
		return p.fetcher.FetchTable(ctx, location)
	}
	return p.refresh(ctx, location, CacheKey(location))
}

func (p *CachedTableFetcher) refresh(ctx context.Context, location, key string) (*ratetable.Table, error) {
	tbl, err := p.fetcher.FetchTable(ctx, location)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	if err := ratetable.WriteCSV(&sb, tbl); err != nil {
		p.logger.Warnw("failed to encode table for cache", "key", key, "error", err)
		return tbl, nil
	}

	pipe := p.cache.Pipeline()
	pipe.HSet(ctx, key, "table", sb.String(), "fetched_at", time.Now().UTC().Format(time.RFC3339))
	pipe.Expire(ctx, key, p.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		p.logger.Warnw("failed to cache table", "key", key, "error", err)
	}

	return tbl, nil
}
