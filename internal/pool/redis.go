package pool

import (
	"context"
	"errors"
	"fmt"

	"github.com/Kalex-k/urlshortener/internal/retry"
	"github.com/redis/go-redis/v9"
)

// poolKey mirrors the original HASH_POOL_KEY constant.
const poolKey = "hash:pool"

// RedisPool stores the hash pool as a Redis list, grounded on the
// teacher's store.RedisStore pipeline style and on the original
// HashCacheServiceRedis, which pushes with rightPush and pops with
// leftPop against a single "hash:pool" key.
type RedisPool struct {
	client *redis.Client
	exec   *retry.Executor
}

// NewRedisPool creates a new Redis-backed hash pool.
func NewRedisPool(client *redis.Client, exec *retry.Executor) *RedisPool {
	return &RedisPool{client: client, exec: exec}
}

func (p *RedisPool) PushBack(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return nil
	}

	args := make([]interface{}, len(hashes))
	for i, h := range hashes {
		args[i] = h
	}

	return p.exec.Execute(ctx, func(ctx context.Context) error {
		return p.client.RPush(ctx, poolKey, args...).Err()
	})
}

func (p *RedisPool) PopFront(ctx context.Context) (string, bool, error) {
	var hash string

	err := p.exec.Execute(ctx, func(ctx context.Context) error {
		v, err := p.client.LPop(ctx, poolKey).Result()
		if errors.Is(err, redis.Nil) {
			hash = ""
			return nil
		}

		if err != nil {
			return err
		}

		hash = v

		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("pool: pop front: %w", err)
	}

	if hash == "" {
		return "", false, nil
	}

	return hash, true, nil
}

func (p *RedisPool) Size(ctx context.Context) (int, error) {
	var size int64

	err := p.exec.Execute(ctx, func(ctx context.Context) error {
		v, err := p.client.LLen(ctx, poolKey).Result()
		if err != nil {
			return err
		}

		size = v

		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("pool: size: %w", err)
	}

	return int(size), nil
}

var _ Pool = (*RedisPool)(nil)
