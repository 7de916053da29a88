package container

import (
	"time"

	"github.com/Kalex-k/urlshortener/internal/cache"
	"github.com/Kalex-k/urlshortener/internal/cleaner"
	"github.com/Kalex-k/urlshortener/internal/distlock"
	"github.com/Kalex-k/urlshortener/internal/generator"
	"github.com/Kalex-k/urlshortener/internal/hashstore"
	"github.com/Kalex-k/urlshortener/internal/metrics"
	"github.com/Kalex-k/urlshortener/internal/pool"
	"github.com/Kalex-k/urlshortener/internal/ratelimit"
	"github.com/Kalex-k/urlshortener/internal/retry"
	"github.com/Kalex-k/urlshortener/internal/scheduler"
	"github.com/Kalex-k/urlshortener/internal/shortener"
	"github.com/Kalex-k/urlshortener/internal/urlstore"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// RepositoryPackage provides the durable stores (C2/C3), the hash pool
// (C5), and the URL cache (C8), generalizing the teacher's single
// store.RedisStore into the split backing each spec component owns.
func RepositoryPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (hashstore.Store, error) {
		pgPool := do.MustInvoke[*pgxpool.Pool](i)
		return hashstore.NewPostgresStore(pgPool), nil
	})

	do.Provide(injector, func(i *do.Injector) (urlstore.Store, error) {
		pgPool := do.MustInvoke[*pgxpool.Pool](i)
		return urlstore.NewPostgresStore(pgPool), nil
	})

	do.Provide(injector, func(i *do.Injector) (pool.Pool, error) {
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		exec := retry.New("pool-pushback", retry.Policy{
			MaxAttempts: retry.DefaultAttempts,
			Delay:       retry.DefaultDelay,
			Classify:    retry.Always,
		}, logger)

		return pool.NewRedisPool(client, exec), nil
	})

	do.Provide(injector, func(i *do.Injector) (cache.Cache, error) {
		client := do.MustInvoke[*redis.Client](i)
		sink := do.MustInvoke[metrics.Sink](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return cache.NewRedisCache(client, 24*time.Hour, sink, logger), nil
	})
}

// MetricsPackage provides the Prometheus-backed metrics sink (not in
// the pack's go.mod, named in SPEC_FULL.md's DOMAIN STACK as the
// ecosystem default).
func MetricsPackage(injector *do.Injector) {
	do.ProvideValue(injector, prometheus.NewRegistry())

	do.Provide(injector, func(i *do.Injector) (metrics.Sink, error) {
		reg := do.MustInvoke[*prometheus.Registry](i)
		return metrics.NewPrometheusSink(reg), nil
	})
}

// RateLimitPackage provides the per-principal token bucket (C11).
func RateLimitPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (ratelimit.Limiter, error) {
		options := do.MustInvoke[*Options](i)
		client := do.MustInvoke[*redis.Client](i)

		cfg := ratelimit.DefaultConfig()
		cfg.Enabled = options.RateLimitEnabled

		return ratelimit.NewRedisLimiter(client, cfg), nil
	})
}

// GeneratorPackage provides the hash batch generator (C6).
func GeneratorPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*generator.Generator, error) {
		hashes := do.MustInvoke[hashstore.Store](i)
		sink := do.MustInvoke[metrics.Sink](i)
		logger := do.MustInvoke[*zap.Logger](i)

		exec := retry.New("hash-generation", retry.Policy{
			MaxAttempts: retry.DefaultAttempts,
			Delay:       retry.DefaultDelay,
			Classify:    retry.Always,
		}, logger)

		return generator.New(hashes, exec, sink, logger, generator.DefaultConfig()), nil
	})
}

// SchedulerPackage provides the pool refill scheduler (C7).
func SchedulerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*scheduler.Scheduler, error) {
		locker := do.MustInvoke[*distlock.Locker](i)
		gen := do.MustInvoke[*generator.Generator](i)
		p := do.MustInvoke[pool.Pool](i)
		hashes := do.MustInvoke[hashstore.Store](i)
		sink := do.MustInvoke[metrics.Sink](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return scheduler.New(locker, p, hashes, gen, sink, logger, scheduler.DefaultConfig(), "redis", "hash:pool"), nil
	})
}

// CleanerPackage provides the age-based URL deletion saga (C12).
func CleanerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*cleaner.Cleaner, error) {
		locker := do.MustInvoke[*distlock.Locker](i)
		urls := do.MustInvoke[urlstore.Store](i)
		hashes := do.MustInvoke[hashstore.Store](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return cleaner.New(locker, urls, hashes, logger, cleaner.DefaultConfig()), nil
	})
}

// ShortenerPackage provides the creation/resolution pipelines (C9/C10).
func ShortenerPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*shortener.Service, error) {
		options := do.MustInvoke[*Options](i)
		p := do.MustInvoke[pool.Pool](i)
		hashes := do.MustInvoke[hashstore.Store](i)
		urls := do.MustInvoke[urlstore.Store](i)
		c := do.MustInvoke[cache.Cache](i)
		limiter := do.MustInvoke[ratelimit.Limiter](i)
		sink := do.MustInvoke[metrics.Sink](i)
		logger := do.MustInvoke[*zap.Logger](i)

		cfg := shortener.DefaultConfig(resolvedBaseURL(options))

		return shortener.New(p, hashes, urls, c, limiter, sink, logger, cfg), nil
	})
}
