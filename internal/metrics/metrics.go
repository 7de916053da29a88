// Package metrics is the named counter/gauge/timer surface that every
// component reports through, grounded on the original MetricsService's
// metric names and tags and rendered onto prometheus/client_golang.
package metrics

import "time"

// Sink is the metrics contract every component depends on. Implementations
// must never block or panic on a bad label value; metrics are advisory.
type Sink interface {
	URLCreationTotal()
	URLCreationSuccess()
	URLCreationFailure(reason string)
	URLCreationDuration(d time.Duration)

	URLRedirectTotal()
	URLRedirectSuccess()
	URLRedirectNotFound()
	URLRedirectDuration(d time.Duration)

	HashCacheHit()
	HashCacheMiss()
	HashCacheFallback()
	HashCacheReturn()

	HashGenerationTotal()
	HashGenerationOnTheFly()
	HashGenerationDuration(d time.Duration)
	HashGenerationSuccess(batchSize int)
	HashGenerationError(exceptionType string)

	RateLimitExceeded()

	URLValidationFailure(reason string)
	RedirectValidationFailure(reason string)

	URLConflict(kind string) // "url" or "hash"

	URLCacheHit()
	URLCacheMiss()

	// SetHashCacheSize reports the legacy hash.cache.size gauge.
	SetHashCacheSize(size float64)
	// SetHashPoolSize reports hash.pool.size, tagged by backend type and key.
	SetHashPoolSize(poolType, poolKey string, size float64)
}
