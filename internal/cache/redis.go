package cache

import (
	"context"
	"errors"
	"time"

	"github.com/Kalex-k/urlshortener/internal/metrics"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	urlCachePrefix     = "url:"
	reverseCachePrefix = "url_to_hash:"
)

// RedisCache is a write-through, read-through cache over Redis string
// keys. Every operation swallows its own errors: the cache is advisory,
// never a source of truth, so a Redis outage degrades to store-only
// behavior instead of failing requests.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	metrics metrics.Sink
	logger  *zap.Logger
}

// NewRedisCache creates a new two-direction Redis URL cache with ttl
// applied to both the forward and reverse keys.
func NewRedisCache(client *redis.Client, ttl time.Duration, sink metrics.Sink, logger *zap.Logger) *RedisCache {
	if sink == nil {
		sink = metrics.NoopSink{}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &RedisCache{client: client, ttl: ttl, metrics: sink, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, hash string) (string, bool) {
	url, err := c.client.Get(ctx, urlCachePrefix+hash).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("failed to get url from cache", zap.String("hash", hash), zap.Error(err))
		}

		c.metrics.URLCacheMiss()

		return "", false
	}

	c.metrics.URLCacheHit()

	return url, true
}

func (c *RedisCache) GetHashByURL(ctx context.Context, url string) (string, bool) {
	hash, err := c.client.Get(ctx, reverseCachePrefix+url).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("failed to get hash from reverse cache", zap.String("url", url), zap.Error(err))
		}

		c.metrics.URLCacheMiss()

		return "", false
	}

	c.metrics.URLCacheHit()

	return hash, true
}

func (c *RedisCache) Put(ctx context.Context, hash, url string) {
	pipe := c.client.Pipeline()
	pipe.Set(ctx, urlCachePrefix+hash, url, c.ttl)
	pipe.Set(ctx, reverseCachePrefix+url, hash, c.ttl)

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("failed to save url to cache", zap.String("hash", hash), zap.Error(err))
	}
}

func (c *RedisCache) Evict(ctx context.Context, hash, url string) {
	pipe := c.client.Pipeline()
	pipe.Del(ctx, urlCachePrefix+hash)

	if url != "" {
		pipe.Del(ctx, reverseCachePrefix+url)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("failed to evict url from cache", zap.String("hash", hash), zap.Error(err))
	}
}

var _ Cache = (*RedisCache)(nil)
