package urlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/Kalex-k/urlshortener/internal/apperr"
	"github.com/Kalex-k/urlshortener/internal/urlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertSucceedsOnce(t *testing.T) {
	store := urlstore.NewMemoryStore()
	ctx := context.Background()

	inserted, err := store.Insert(ctx, "abc", "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, inserted)
}

func TestInsertURLConflictReturnsFalse(t *testing.T) {
	store := urlstore.NewMemoryStore()
	ctx := context.Background()

	_, err := store.Insert(ctx, "abc", "https://example.com/a")
	require.NoError(t, err)

	inserted, err := store.Insert(ctx, "xyz", "https://example.com/a")
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestInsertHashConflictReturnsErrConflictHash(t *testing.T) {
	store := urlstore.NewMemoryStore()
	ctx := context.Background()

	_, err := store.Insert(ctx, "abc", "https://example.com/a")
	require.NoError(t, err)

	_, err = store.Insert(ctx, "abc", "https://example.com/b")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrConflictHash)
}

func TestFindOldHashesRespectsCutoffAndLimit(t *testing.T) {
	store := urlstore.NewMemoryStore()
	now := time.Now()

	store.SeedWithCreatedAt("old1", "https://example.com/old1", now.Add(-2*365*24*time.Hour))
	store.SeedWithCreatedAt("old2", "https://example.com/old2", now.Add(-2*365*24*time.Hour))
	store.SeedWithCreatedAt("new1", "https://example.com/new1", now)

	hashes, err := store.FindOldHashes(context.Background(), now.Add(-365*24*time.Hour), 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"old1", "old2"}, hashes)
}

func TestDeleteByHashesRemovesBothIndexes(t *testing.T) {
	store := urlstore.NewMemoryStore()
	ctx := context.Background()

	_, err := store.Insert(ctx, "abc", "https://example.com/a")
	require.NoError(t, err)

	require.NoError(t, store.DeleteByHashes(ctx, []string{"abc"}))

	_, found, err := store.FindByHash(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = store.FindByURL(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.False(t, found)
}
