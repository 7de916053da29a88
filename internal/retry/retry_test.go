package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Kalex-k/urlshortener/internal/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func TestExecuteSucceedsAfterRetries(t *testing.T) {
	attempts := 0
	executor := retry.New("test", retry.Policy{
		MaxAttempts: 3,
		Delay:       time.Millisecond,
		Classify:    retry.Always,
	}, nil)

	err := executor.Execute(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errTransient
		}

		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestExecuteStopsOnNonRetryable(t *testing.T) {
	attempts := 0
	executor := retry.New("test", retry.Policy{
		MaxAttempts: 5,
		Delay:       time.Millisecond,
		Classify:    retry.Never,
	}, nil)

	err := executor.Execute(context.Background(), func(context.Context) error {
		attempts++
		return errTransient
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	assert.ErrorIs(t, err, errTransient)
}

func TestExecutePropagatesOriginalCauseAfterBudgetExhausted(t *testing.T) {
	executor := retry.New("test", retry.Policy{
		MaxAttempts: 3,
		Delay:       time.Millisecond,
		Classify:    retry.Always,
	}, nil)

	err := executor.Execute(context.Background(), func(context.Context) error {
		return errTransient
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, errTransient)
}

func TestExecuteRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	executor := retry.New("test", retry.Policy{
		MaxAttempts: 5,
		Delay:       time.Millisecond,
		Classify:    retry.Always,
	}, nil)

	attempts := 0

	err := executor.Execute(ctx, func(context.Context) error {
		attempts++
		return errTransient
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
