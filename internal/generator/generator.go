// Package generator is the hash batch generator (C6): draws sequence
// numbers, base62-encodes them, and persists them as available rows,
// grounded on the original HashGenerator/AsyncConfig pair.
package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/Kalex-k/urlshortener/internal/base62"
	"github.com/Kalex-k/urlshortener/internal/hashstore"
	"github.com/Kalex-k/urlshortener/internal/metrics"
	"github.com/Kalex-k/urlshortener/internal/retry"
	"github.com/Kalex-k/urlshortener/internal/workerpool"
	"go.uber.org/zap"
)

// Config mirrors HashGeneratorProperties: batch size and thread pool
// shape, validated the same way (batch size clamped to [1, 1000]).
type Config struct {
	BatchSize          int
	ThreadPoolSize     int
	ThreadPoolQueueCap int
}

// DefaultConfig matches the original's defaults: batch size 100, a
// 4-worker pool backed by a 10000-deep queue.
func DefaultConfig() Config {
	return Config{BatchSize: 100, ThreadPoolSize: 4, ThreadPoolQueueCap: 10000}
}

func (c Config) normalized() Config {
	if c.BatchSize < 1 {
		c.BatchSize = 1
	}

	if c.BatchSize > 1000 {
		c.BatchSize = 1000
	}

	if c.ThreadPoolSize < 1 {
		c.ThreadPoolSize = 1
	}

	if c.ThreadPoolQueueCap < 0 {
		c.ThreadPoolQueueCap = 0
	}

	return c
}

// Generator batch-produces hash rows in the durable store.
type Generator struct {
	store   hashstore.Store
	exec    *retry.Executor
	metrics metrics.Sink
	logger  *zap.Logger
	cfg     Config
	pool    *workerpool.Pool
}

// New creates a Generator with its own dedicated worker pool, mirroring
// the original's dedicated hashGeneratorExecutor bean.
func New(store hashstore.Store, exec *retry.Executor, sink metrics.Sink, logger *zap.Logger, cfg Config) *Generator {
	cfg = cfg.normalized()

	if logger == nil {
		logger = zap.NewNop()
	}

	if sink == nil {
		sink = metrics.NoopSink{}
	}

	return &Generator{
		store:   store,
		exec:    exec,
		metrics: sink,
		logger:  logger,
		cfg:     cfg,
		pool:    workerpool.New(cfg.ThreadPoolSize, cfg.ThreadPoolQueueCap),
	}
}

// GenerateBatchAsync submits one batch generation to the worker pool,
// falling back to running on the caller if the pool's queue is full.
func (g *Generator) GenerateBatchAsync(ctx context.Context) {
	g.pool.Submit(func() {
		if err := g.GenerateBatch(ctx); err != nil {
			g.logger.Error("hash generation failed with unhandled error", zap.Error(err))
		}
	})
}

// GenerateBatch draws cfg.BatchSize sequence numbers, encodes them, and
// inserts them as available hash rows. Safe to call concurrently.
func (g *Generator) GenerateBatch(ctx context.Context) error {
	start := time.Now()

	err := g.exec.Execute(ctx, func(ctx context.Context) error {
		return g.doGenerateBatch(ctx)
	})

	g.metrics.HashGenerationDuration(time.Since(start))

	if err != nil {
		g.metrics.HashGenerationError(classify(err))
		return err
	}

	return nil
}

func (g *Generator) doGenerateBatch(ctx context.Context) error {
	numbers, err := g.store.NextSequence(ctx, g.cfg.BatchSize)
	if err != nil {
		return fmt.Errorf("generator: next sequence: %w", err)
	}

	if len(numbers) == 0 {
		g.logger.Debug("no unique numbers available for hash generation")
		return nil
	}

	hashes, err := base62.EncodeBatch(numbers)
	if err != nil {
		return fmt.Errorf("generator: encode batch: %w", err)
	}

	if len(hashes) == 0 {
		return fmt.Errorf("generator: encoder produced no hashes for input of size %d", len(numbers))
	}

	if len(hashes) != len(numbers) {
		return fmt.Errorf("generator: hash count mismatch: expected %d, got %d", len(numbers), len(hashes))
	}

	if err := g.store.InsertIfAbsent(ctx, hashes); err != nil {
		return fmt.Errorf("generator: insert batch: %w", err)
	}

	g.logger.Info("generated and saved hash batch", zap.Int("count", len(hashes)))
	g.metrics.HashGenerationTotal()
	g.metrics.HashGenerationSuccess(len(hashes))

	return nil
}

func classify(err error) string {
	if err == nil {
		return "none"
	}

	return fmt.Sprintf("%T", err)
}
