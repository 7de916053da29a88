// Package retry wraps github.com/Rican7/retry with the classified,
// fixed-attempt/fixed-delay policy every store-facing call in this
// module runs under.
package retry

import (
	"context"
	"time"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/strategy"
	"go.uber.org/zap"
)

// Classifier reports whether err is worth retrying. The default
// classifier retries nothing, matching spec.md's "default:
// non-retryable" rule.
type Classifier func(err error) bool

// Never never retries.
func Never(error) bool { return false }

// Always retries any non-nil error.
func Always(err error) bool { return err != nil }

const (
	MinAttempts     = 1
	MaxAttempts     = 10
	DefaultAttempts = 3
	MinDelay        = 100 * time.Millisecond
	MaxDelay        = 60 * time.Second
	DefaultDelay    = 1 * time.Second
)

// Policy configures an Executor.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Classify    Classifier
}

// DefaultPolicy returns spec.md §4.4's default (3 attempts, 1s delay,
// nothing retried unless overridden).
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultAttempts, Delay: DefaultDelay, Classify: Never}
}

// Executor runs operations under a Policy, logging each failed attempt
// and propagating the original cause on final failure.
type Executor struct {
	policy Policy
	logger *zap.Logger
	name   string
}

// New creates an Executor for a named call site (used only for log
// context; it has no bearing on retry behavior).
func New(name string, policy Policy, logger *zap.Logger) *Executor {
	if policy.MaxAttempts < MinAttempts {
		policy.MaxAttempts = MinAttempts
	}

	if policy.MaxAttempts > MaxAttempts {
		policy.MaxAttempts = MaxAttempts
	}

	if policy.Classify == nil {
		policy.Classify = Never
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Executor{policy: policy, logger: logger, name: name}
}

// Execute runs op, retrying per the Executor's policy while
// ctx.Err() == nil and the classifier reports the failure as
// retryable. On final failure it returns the last error produced by op
// unchanged.
func (e *Executor) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error

	action := func(attempt uint) error {
		lastErr = op(ctx)

		return lastErr
	}

	shouldRetry := func(attempt uint) bool {
		if attempt == 0 {
			return true
		}

		if lastErr == nil || ctx.Err() != nil {
			return false
		}

		if !e.policy.Classify(lastErr) {
			return false
		}

		e.logger.Warn("retrying operation",
			zap.String("op", e.name),
			zap.Uint("attempt", attempt),
			zap.Int("max_attempts", e.policy.MaxAttempts),
			zap.Error(lastErr),
		)

		return true
	}

	err := retry.Retry(
		action,
		strategy.Limit(uint(e.policy.MaxAttempts)),
		shouldRetry,
		strategy.Wait(e.policy.Delay),
	)
	if err != nil {
		return lastErr
	}

	return nil
}
