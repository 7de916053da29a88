package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript atomically refills and consumes from a bucket
// stored as a Redis hash {tokens, ts}. now and ts are milliseconds.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local capacity = tonumber(ARGV[1])
local rate = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local requested = tonumber(ARGV[4])
local ttl = tonumber(ARGV[5])

local bucket = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(bucket[1])
local ts = tonumber(bucket[2])

if tokens == nil then
	tokens = capacity
	ts = now
end

local elapsed = now - ts
if elapsed < 0 then
	elapsed = 0
end

tokens = math.min(capacity, tokens + (elapsed * rate / 1000))

local allowed = 0
if tokens >= requested then
	tokens = tokens - requested
	allowed = 1
end

redis.call('HSET', key, 'tokens', tostring(tokens), 'ts', tostring(now))
redis.call('EXPIRE', key, ttl)

return allowed
`)

// RedisLimiter is the Redis-backed token bucket Limiter.
type RedisLimiter struct {
	client *redis.Client
	cfg    Config
}

// NewRedisLimiter creates a new Redis-backed Limiter.
func NewRedisLimiter(client *redis.Client, cfg Config) *RedisLimiter {
	return &RedisLimiter{client: client, cfg: cfg}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if !l.cfg.Enabled {
		return true, nil
	}

	rate := float64(l.cfg.RefillTokens) / float64(l.cfg.RefillIntervalSeconds)
	ttl := l.cfg.BucketExpirationMinutes * 60
	now := time.Now().UnixMilli()

	result, err := tokenBucketScript.Run(ctx, l.client, []string{key},
		l.cfg.Capacity, rate, now, 1, ttl).Int64()
	if err != nil {
		return false, fmt.Errorf("ratelimit: run token bucket script: %w", err)
	}

	return result == 1, nil
}

var _ Limiter = (*RedisLimiter)(nil)
