package client

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tair/allergy-scan/internal/product/domain"
	"github.com/tair/allergy-scan/pkg/logger"
	"github.com/tair/allergy-scan/pkg/metrics"
)

const cacheKeyPrefix = "allergyscan:product:"

// CachedFetcher serves found products from redis. NotFound and errors are
// never cached, so a retry always reaches the upstream.
type CachedFetcher struct {
	next   domain.Fetcher
	client *redis.Client
	ttl    time.Duration
}

// NewCachedFetcher wraps next with a redis cache
func NewCachedFetcher(next domain.Fetcher, client *redis.Client, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{next: next, client: client, ttl: ttl}
}

func cacheKey(barcode string) string {
	return cacheKeyPrefix + barcode
}

// Fetch returns the cached record or falls through to the wrapped fetcher
func (c *CachedFetcher) Fetch(ctx context.Context, barcode string) (*domain.ProductRecord, error) {
	cached, err := c.client.Get(ctx, cacheKey(barcode)).Bytes()
	switch {
	case err == nil:
		var record domain.ProductRecord
		if jsonErr := json.Unmarshal(cached, &record); jsonErr == nil {
			metrics.LookupCache.WithLabelValues("hit").Inc()
			logger.Debug(ctx).Str("barcode", barcode).Msg("Cache hit")
			return &record, nil
		}
		metrics.LookupCache.WithLabelValues("error").Inc()
	case errors.Is(err, redis.Nil):
		metrics.LookupCache.WithLabelValues("miss").Inc()
	default:
		metrics.LookupCache.WithLabelValues("error").Inc()
		logger.Warn(ctx).Err(err).Str("barcode", barcode).Msg("Product cache unavailable")
	}

	record, err := c.next.Fetch(ctx, barcode)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(record); err == nil {
		if err := c.client.Set(ctx, cacheKey(barcode), data, c.ttl).Err(); err != nil {
			logger.Warn(ctx).Err(err).Str("barcode", barcode).Msg("Failed to cache product")
		}
	}
	return record, nil
}
