package pool_test

import (
	"context"
	"testing"

	"github.com/Kalex-k/urlshortener/internal/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushBackThenPopFrontPreservesOrder(t *testing.T) {
	p := pool.NewMemoryPool()
	ctx := context.Background()

	require.NoError(t, p.PushBack(ctx, []string{"a", "b", "c"}))

	size, err := p.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, size)

	for _, want := range []string{"a", "b", "c"} {
		hash, ok, err := p.PopFront(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, hash)
	}
}

func TestPopFrontOnEmptyPoolReturnsNotOkWithoutError(t *testing.T) {
	p := pool.NewMemoryPool()
	ctx := context.Background()

	hash, ok, err := p.PopFront(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, hash)
}

func TestPushBackAppendsAcrossMultipleCalls(t *testing.T) {
	p := pool.NewMemoryPool()
	ctx := context.Background()

	require.NoError(t, p.PushBack(ctx, []string{"a"}))
	require.NoError(t, p.PushBack(ctx, []string{"b", "c"}))

	size, err := p.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, size)
}
