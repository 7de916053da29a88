// Package scheduler is the pool refill scheduler (C7): on a cron tick,
// under a cluster-wide lock, it asks the generator for a fresh batch
// and tops the pool back up from the durable store's available rows.
// Grounded on original_source's HashGeneratorScheduler.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/Kalex-k/urlshortener/internal/generator"
	"github.com/Kalex-k/urlshortener/internal/hashstore"
	"github.com/Kalex-k/urlshortener/internal/metrics"
	"github.com/Kalex-k/urlshortener/internal/pool"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// LockName is the distributed lock name spec.md §4.7 specifies.
const LockName = "generateHashBatch"

// Config mirrors the scheduler's cron and lock properties.
type Config struct {
	CronExpr       string
	LockAtLeastFor time.Duration
	LockAtMostFor  time.Duration
	MaxPoolSize    int
	ClaimBatch     int
}

// DefaultConfig matches spec.md §6: every minute, held 30s-5m, topping
// the pool up to 1000 entries in chunks of 100.
func DefaultConfig() Config {
	return Config{
		CronExpr:       "0 * * * * *",
		LockAtLeastFor: 30 * time.Second,
		LockAtMostFor:  5 * time.Minute,
		MaxPoolSize:    1000,
		ClaimBatch:     100,
	}
}

// Locker is the subset of distlock.Locker the scheduler depends on,
// narrowed to an interface so tests can fake the distributed lock.
type Locker interface {
	TryRun(ctx context.Context, name string, minHold, maxHold time.Duration, fn func(ctx context.Context) error) (ran bool, err error)
}

// Scheduler runs the pool refill tick.
type Scheduler struct {
	cron    *cron.Cron
	locker  Locker
	pool    pool.Pool
	hashes  hashstore.Store
	gen     *generator.Generator
	metrics metrics.Sink
	logger  *zap.Logger
	cfg     Config

	poolKey  string
	poolType string
}

// New wires a Scheduler. poolType/poolKey are used only as metric tags
// for the hash.pool.size gauge.
func New(
	locker Locker,
	p pool.Pool,
	hashes hashstore.Store,
	gen *generator.Generator,
	sink metrics.Sink,
	logger *zap.Logger,
	cfg Config,
	poolType, poolKey string,
) *Scheduler {
	if sink == nil {
		sink = metrics.NoopSink{}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.MaxPoolSize < 1 {
		cfg.MaxPoolSize = 1000
	}

	if cfg.ClaimBatch < 1 {
		cfg.ClaimBatch = 100
	}

	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		locker:   locker,
		pool:     p,
		hashes:   hashes,
		gen:      gen,
		metrics:  sink,
		logger:   logger,
		cfg:      cfg,
		poolType: poolType,
		poolKey:  poolKey,
	}
}

// WarmUp runs the refill tick three times unconditionally, matching
// HashGeneratorScheduler.initializeOnStartup.
func (s *Scheduler) WarmUp(ctx context.Context) {
	for i := 0; i < 3; i++ {
		s.tick(ctx)
	}
}

// Start registers the cron tick and begins running it in the background.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.cfg.CronExpr, func() {
		s.tick(context.Background())
	})
	if err != nil {
		return fmt.Errorf("scheduler: add cron func: %w", err)
	}

	s.cron.Start()

	return nil
}

// Stop halts the cron and waits for any in-flight tick to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) tick(ctx context.Context) {
	ran, err := s.locker.TryRun(ctx, LockName, s.cfg.LockAtLeastFor, s.cfg.LockAtMostFor, s.refill)
	if err != nil {
		s.logger.Error("pool refill failed", zap.Error(err))
		return
	}

	if !ran {
		s.logger.Debug("pool refill lock held elsewhere, skipping tick")
	}
}

func (s *Scheduler) refill(ctx context.Context) error {
	s.gen.GenerateBatchAsync(ctx)

	for {
		size, err := s.pool.Size(ctx)
		if err != nil {
			return fmt.Errorf("scheduler: pool size: %w", err)
		}

		s.metrics.SetHashPoolSize(s.poolType, s.poolKey, float64(size))
		s.metrics.SetHashCacheSize(float64(size))

		if size >= s.cfg.MaxPoolSize {
			return nil
		}

		want := s.cfg.MaxPoolSize - size
		if want > s.cfg.ClaimBatch {
			want = s.cfg.ClaimBatch
		}

		claimed, err := s.hashes.ClaimAvailable(ctx, want)
		if err != nil {
			return fmt.Errorf("scheduler: claim available: %w", err)
		}

		if len(claimed) == 0 {
			return nil
		}

		if err := s.pool.PushBack(ctx, claimed); err != nil {
			return fmt.Errorf("scheduler: push back: %w", err)
		}
	}
}
