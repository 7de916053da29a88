// Package cleaner is the age-based URL deletion saga (C12): release the
// hash back to available, then delete the URL row, with compensation
// if a cooperative shutdown flag trips between the two steps. Grounded
// on original_source's UrlCleanerService.
package cleaner

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Kalex-k/urlshortener/internal/hashstore"
	"github.com/Kalex-k/urlshortener/internal/retry"
	"github.com/Kalex-k/urlshortener/internal/urlstore"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// LockName is the distributed lock name spec.md §4.12 specifies.
const LockName = "cleanOldUrls"

// Config mirrors the cleaner's retention, batch, cron, and lock properties.
type Config struct {
	RetentionYears int
	BatchSize      int
	CronExpr       string
	LockAtLeastFor time.Duration
	LockAtMostFor  time.Duration
	Retry          retry.Policy
}

// DefaultConfig matches spec.md §6: 1 year retention, 1000-row batches,
// held 5m-1h.
func DefaultConfig() Config {
	return Config{
		RetentionYears: 1,
		BatchSize:      1000,
		CronExpr:       "0 0 3 * * *",
		LockAtLeastFor: 5 * time.Minute,
		LockAtMostFor:  1 * time.Hour,
		Retry: retry.Policy{
			MaxAttempts: retry.DefaultAttempts,
			Delay:       retry.DefaultDelay,
			Classify:    retry.Always,
		},
	}
}

// Locker is the subset of distlock.Locker the cleaner depends on,
// narrowed to an interface so tests can fake the distributed lock.
type Locker interface {
	TryRun(ctx context.Context, name string, minHold, maxHold time.Duration, fn func(ctx context.Context) error) (ran bool, err error)
}

// Cleaner runs the compensating saga that ages out old URL rows.
type Cleaner struct {
	cron   *cron.Cron
	locker Locker
	urls   urlstore.Store
	hashes hashstore.Store
	exec   *retry.Executor
	logger *zap.Logger
	cfg    Config

	shuttingDown atomic.Bool
}

// New wires a Cleaner.
func New(locker Locker, urls urlstore.Store, hashes hashstore.Store, logger *zap.Logger, cfg Config) *Cleaner {
	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1000
	}

	if cfg.RetentionYears < 1 {
		cfg.RetentionYears = 1
	}

	return &Cleaner{
		cron:   cron.New(cron.WithSeconds()),
		locker: locker,
		urls:   urls,
		hashes: hashes,
		exec:   retry.New("cleaner-batch", cfg.Retry, logger),
		logger: logger,
		cfg:    cfg,
	}
}

// Start registers the cron tick and begins running it in the background.
func (c *Cleaner) Start() error {
	_, err := c.cron.AddFunc(c.cfg.CronExpr, func() {
		c.tick(context.Background())
	})
	if err != nil {
		return fmt.Errorf("cleaner: add cron func: %w", err)
	}

	c.cron.Start()

	return nil
}

// Stop halts the cron and waits for any in-flight tick to finish.
func (c *Cleaner) Stop() {
	<-c.cron.Stop().Done()
}

// Shutdown sets the cooperative flag the saga polls between steps,
// matching UrlCleanerService.onShutdown's @PreDestroy hook.
func (c *Cleaner) Shutdown() {
	c.shuttingDown.Store(true)
}

func (c *Cleaner) tick(ctx context.Context) {
	ran, err := c.locker.TryRun(ctx, LockName, c.cfg.LockAtLeastFor, c.cfg.LockAtMostFor, c.Run)
	if err != nil {
		c.logger.Error("cleaner run failed", zap.Error(err))
		return
	}

	if !ran {
		c.logger.Debug("cleaner lock held elsewhere, skipping tick")
	}
}

// Run executes the full cleanup loop: batch after batch of
// findOldHashes+release+delete until a batch comes back empty, a
// shutdown is observed, or a batch fails after its retry budget.
func (c *Cleaner) Run(ctx context.Context) error {
	cutoff := time.Now().AddDate(-c.cfg.RetentionYears, 0, 0)

	var totalProcessed int

	for {
		if c.shuttingDown.Load() {
			c.logger.Warn("shutdown in progress, stopping before batch", zap.Int("processed", totalProcessed))
			break
		}

		hashes, err := c.urls.FindOldHashes(ctx, cutoff, c.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("cleaner: find old hashes: %w", err)
		}

		if len(hashes) == 0 {
			c.logger.Info("no more old urls found", zap.Int("processed", totalProcessed))
			break
		}

		if err := c.exec.Execute(ctx, func(ctx context.Context) error {
			return c.processBatch(ctx, hashes)
		}); err != nil {
			c.logger.Error("batch processing failed after retries, stopping cleanup", zap.Error(err))
			return fmt.Errorf("cleaner: process batch: %w", err)
		}

		totalProcessed += len(hashes)

		if c.shuttingDown.Load() {
			c.logger.Warn("shutdown in progress, stopping after batch", zap.Int("processed", totalProcessed))
			break
		}
	}

	c.logger.Info("cleanup stopped", zap.Int("processed", totalProcessed))

	return nil
}

// processBatch is the saga's two ordered steps plus mid-batch
// compensation: release (step 2) happens before delete (step 3) so a
// reader never observes a URL row whose hash reports available=true;
// if shutdown trips between the two steps, the release is undone.
func (c *Cleaner) processBatch(ctx context.Context, hashes []string) error {
	if c.shuttingDown.Load() {
		c.logger.Warn("shutdown detected before batch, aborting")
		return nil
	}

	if err := c.hashes.ReleaseAvailable(ctx, hashes); err != nil {
		return fmt.Errorf("cleaner: release available: %w", err)
	}

	if c.shuttingDown.Load() {
		c.logger.Warn("shutdown detected after release, compensating", zap.Int("count", len(hashes)))

		if err := c.hashes.Delete(ctx, hashes); err != nil {
			c.logger.Error("compensation failed: could not remove hashes", zap.Error(err))
			return fmt.Errorf("cleaner: compensate release: %w", err)
		}

		return nil
	}

	if err := c.urls.DeleteByHashes(ctx, hashes); err != nil {
		return fmt.Errorf("cleaner: delete by hashes: %w", err)
	}

	return nil
}
