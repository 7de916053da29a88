package generator_test

import (
	"context"
	"testing"
	"time"

	"github.com/Kalex-k/urlshortener/internal/generator"
	"github.com/Kalex-k/urlshortener/internal/hashstore"
	"github.com/Kalex-k/urlshortener/internal/metrics"
	"github.com/Kalex-k/urlshortener/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator(t *testing.T, cfg generator.Config) (*generator.Generator, *hashstore.MemoryStore) {
	t.Helper()

	store := hashstore.NewMemoryStore()
	exec := retry.New("generator-test", retry.Policy{MaxAttempts: 1, Delay: 0, Classify: retry.Never}, nil)

	return generator.New(store, exec, metrics.NoopSink{}, nil, cfg), store
}

func TestGenerateBatchInsertsRequestedCount(t *testing.T) {
	g, store := newGenerator(t, generator.Config{BatchSize: 5, ThreadPoolSize: 1, ThreadPoolQueueCap: 1})

	require.NoError(t, g.GenerateBatch(context.Background()))

	hashes, err := store.ClaimAvailable(context.Background(), 100)
	require.NoError(t, err)
	assert.Len(t, hashes, 5)
}

func TestGenerateBatchAccumulatesAcrossCalls(t *testing.T) {
	g, store := newGenerator(t, generator.Config{BatchSize: 3, ThreadPoolSize: 1, ThreadPoolQueueCap: 1})
	ctx := context.Background()

	require.NoError(t, g.GenerateBatch(ctx))
	require.NoError(t, g.GenerateBatch(ctx))

	hashes, err := store.ClaimAvailable(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, hashes, 6)
}

func TestGenerateBatchAsyncEventuallyInsertsHashes(t *testing.T) {
	g, store := newGenerator(t, generator.Config{BatchSize: 4, ThreadPoolSize: 1, ThreadPoolQueueCap: 1})

	g.GenerateBatchAsync(context.Background())

	var hashes []string

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		hashes, _ = store.ClaimAvailable(context.Background(), 100)
		if len(hashes) > 0 {
			break
		}

		time.Sleep(5 * time.Millisecond)
	}

	assert.NotEmpty(t, hashes)
}
