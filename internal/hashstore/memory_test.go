package hashstore_test

import (
	"context"
	"testing"

	"github.com/Kalex-k/urlshortener/internal/hashstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextSequenceStrictlyIncreasing(t *testing.T) {
	store := hashstore.NewMemoryStore()

	first, err := store.NextSequence(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, first)

	second, err := store.NextSequence(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5}, second)
}

func TestClaimAvailableTransitionsAndNeverDuplicates(t *testing.T) {
	store := hashstore.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.InsertIfAbsent(ctx, []string{"a", "b", "c"}))

	claimed, err := store.ClaimAvailable(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, claimed, 2)

	for _, h := range claimed {
		available, known := store.IsAvailable(h)
		require.True(t, known)
		assert.False(t, available)
	}

	remaining, err := store.ClaimAvailable(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)

	for _, h := range claimed {
		assert.NotContains(t, remaining, h)
	}
}

func TestReleaseAvailableIsIdempotent(t *testing.T) {
	store := hashstore.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.MarkUsed(ctx, "x"))
	require.NoError(t, store.ReleaseAvailable(ctx, []string{"x"}))
	require.NoError(t, store.ReleaseAvailable(ctx, []string{"x"}))

	available, known := store.IsAvailable("x")
	require.True(t, known)
	assert.True(t, available)
}

func TestDeleteRemovesRow(t *testing.T) {
	store := hashstore.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.MarkUsed(ctx, "x"))
	require.NoError(t, store.Delete(ctx, []string{"x"}))

	_, known := store.IsAvailable("x")
	assert.False(t, known)
}
