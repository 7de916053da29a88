package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/Kalex-k/urlshortener/internal/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowConsumesUpToCapacityThenDenies(t *testing.T) {
	l := ratelimit.NewMemoryLimiter(ratelimit.Config{
		Enabled: true, Capacity: 3, RefillTokens: 3, RefillIntervalSeconds: 60,
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		ok, err := l.Allow(ctx, "rate-limit:user:1")
		require.NoError(t, err)
		assert.True(t, ok, "request %d should be allowed", i)
	}

	ok, err := l.Allow(ctx, "rate-limit:user:1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAllowDisabledAlwaysAllows(t *testing.T) {
	l := ratelimit.NewMemoryLimiter(ratelimit.Config{Enabled: false, Capacity: 1})
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		ok, err := l.Allow(ctx, "rate-limit:anonymous")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestAllowIsolatesBucketsPerKey(t *testing.T) {
	l := ratelimit.NewMemoryLimiter(ratelimit.Config{
		Enabled: true, Capacity: 1, RefillTokens: 1, RefillIntervalSeconds: 60,
	})
	ctx := context.Background()

	okA, err := l.Allow(ctx, "rate-limit:user:a")
	require.NoError(t, err)
	assert.True(t, okA)

	okB, err := l.Allow(ctx, "rate-limit:user:b")
	require.NoError(t, err)
	assert.True(t, okB)
}

func TestKeyForPrincipalDistinguishesAnonymous(t *testing.T) {
	assert.Equal(t, "rate-limit:anonymous", ratelimit.KeyForPrincipal(""))
	assert.Equal(t, "rate-limit:user:42", ratelimit.KeyForPrincipal("42"))
}

func TestAllowRefillsOverTime(t *testing.T) {
	l := ratelimit.NewMemoryLimiter(ratelimit.Config{
		Enabled: true, Capacity: 1, RefillTokens: 1, RefillIntervalSeconds: 1,
	})
	ctx := context.Background()

	ok, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	time.Sleep(1100 * time.Millisecond)

	ok, err = l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
