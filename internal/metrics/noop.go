package metrics

import "time"

// NoopSink discards every metric. Used in tests and as a safe default
// when no registry is wired.
type NoopSink struct{}

func (NoopSink) URLCreationTotal()                  {}
func (NoopSink) URLCreationSuccess()                {}
func (NoopSink) URLCreationFailure(string)          {}
func (NoopSink) URLCreationDuration(time.Duration)  {}
func (NoopSink) URLRedirectTotal()                  {}
func (NoopSink) URLRedirectSuccess()                {}
func (NoopSink) URLRedirectNotFound()               {}
func (NoopSink) URLRedirectDuration(time.Duration)  {}
func (NoopSink) HashCacheHit()                      {}
func (NoopSink) HashCacheMiss()                     {}
func (NoopSink) HashCacheFallback()                 {}
func (NoopSink) HashCacheReturn()                   {}
func (NoopSink) HashGenerationTotal()                  {}
func (NoopSink) HashGenerationOnTheFly()               {}
func (NoopSink) HashGenerationDuration(time.Duration)  {}
func (NoopSink) HashGenerationSuccess(int)             {}
func (NoopSink) HashGenerationError(string)            {}
func (NoopSink) RateLimitExceeded()                    {}
func (NoopSink) URLValidationFailure(string)           {}
func (NoopSink) RedirectValidationFailure(string)      {}
func (NoopSink) URLConflict(string)                    {}
func (NoopSink) URLCacheHit()                          {}
func (NoopSink) URLCacheMiss()                         {}
func (NoopSink) SetHashCacheSize(float64)              {}
func (NoopSink) SetHashPoolSize(string, string, float64) {}

var _ Sink = NoopSink{}
