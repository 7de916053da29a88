package cache_test

import (
	"context"
	"testing"

	"github.com/Kalex-k/urlshortener/internal/cache"
	"github.com/stretchr/testify/assert"
)

func TestPutThenGetBothDirections(t *testing.T) {
	c := cache.NewMemoryCache()
	ctx := context.Background()

	c.Put(ctx, "abc", "https://example.com/a")

	url, ok := c.Get(ctx, "abc")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/a", url)

	hash, ok := c.GetHashByURL(ctx, "https://example.com/a")
	assert.True(t, ok)
	assert.Equal(t, "abc", hash)
}

func TestGetMissReturnsFalse(t *testing.T) {
	c := cache.NewMemoryCache()

	_, ok := c.Get(context.Background(), "nope")
	assert.False(t, ok)
}

func TestEvictRemovesBothDirections(t *testing.T) {
	c := cache.NewMemoryCache()
	ctx := context.Background()

	c.Put(ctx, "abc", "https://example.com/a")
	c.Evict(ctx, "abc", "https://example.com/a")

	_, ok := c.Get(ctx, "abc")
	assert.False(t, ok)

	_, ok = c.GetHashByURL(ctx, "https://example.com/a")
	assert.False(t, ok)
}
