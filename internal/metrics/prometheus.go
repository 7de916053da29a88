package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink implements Sink on top of prometheus/client_golang,
// chosen as the out-of-pack ecosystem default for a metrics backend the
// corpus never wires (see DESIGN.md).
type PrometheusSink struct {
	urlCreationTotal    prometheus.Counter
	urlCreationSuccess  prometheus.Counter
	urlCreationFailure  *prometheus.CounterVec
	urlCreationDuration prometheus.Histogram

	urlRedirectTotal    prometheus.Counter
	urlRedirectSuccess  prometheus.Counter
	urlRedirectNotFound prometheus.Counter
	urlRedirectDuration prometheus.Histogram

	hashCacheHit      prometheus.Counter
	hashCacheMiss     prometheus.Counter
	hashCacheFallback prometheus.Counter
	hashCacheReturn   prometheus.Counter

	hashGenerationTotal     prometheus.Counter
	hashGenerationOnTheFly  prometheus.Counter
	hashGenerationDuration  prometheus.Histogram
	hashGenerationSuccess   *prometheus.CounterVec
	hashGenerationError     *prometheus.CounterVec

	rateLimitExceeded prometheus.Counter

	urlValidationFailure      *prometheus.CounterVec
	redirectValidationFailure *prometheus.CounterVec

	urlConflict *prometheus.CounterVec

	urlCacheHit  prometheus.Counter
	urlCacheMiss prometheus.Counter

	hashCacheSize prometheus.Gauge
	hashPoolSize  *prometheus.GaugeVec
}

// NewPrometheusSink registers every metric against reg and returns a Sink.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{
		urlCreationTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "url_creation_total", Help: "Total number of URL creation requests",
		}),
		urlCreationSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "url_creation_success", Help: "Number of successful URL creations",
		}),
		urlCreationFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "url_creation_failure", Help: "Number of failed URL creations",
		}, []string{"reason"}),
		urlCreationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "url_creation_duration_seconds", Help: "Time taken to create a short URL",
		}),

		urlRedirectTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "url_redirect_total", Help: "Total number of redirect requests",
		}),
		urlRedirectSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "url_redirect_success", Help: "Number of successful redirects",
		}),
		urlRedirectNotFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "url_redirect_not_found", Help: "Number of redirects where URL was not found",
		}),
		urlRedirectDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "url_redirect_duration_seconds", Help: "Time taken to process a redirect",
		}),

		hashCacheHit: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hash_cache_hit", Help: "Number of hash cache hits",
		}),
		hashCacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hash_cache_miss", Help: "Number of hash cache misses",
		}),
		hashCacheFallback: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hash_cache_fallback", Help: "Number of fallbacks to the database for a hash",
		}),
		hashCacheReturn: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hash_cache_return", Help: "Number of hashes returned to the cache",
		}),

		hashGenerationTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hash_generation_total", Help: "Total number of hash generations",
		}),
		hashGenerationOnTheFly: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hash_generation_on_the_fly", Help: "Number of on-the-fly hash generations",
		}),
		hashGenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "hash_generation_duration_seconds", Help: "Time taken to generate a batch of hashes",
		}),
		hashGenerationSuccess: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hash_generation_success", Help: "Number of successful hash batch generations",
		}, []string{"batch_size"}),
		hashGenerationError: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hash_generation_error", Help: "Number of hash generation errors",
		}, []string{"exception"}),

		rateLimitExceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rate_limit_exceeded", Help: "Number of rate limit violations",
		}),

		urlValidationFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "url_validation_failure", Help: "Number of URL validation failures",
		}, []string{"reason"}),
		redirectValidationFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "redirect_validation_failure", Help: "Number of redirect validation failures",
		}, []string{"reason"}),

		urlConflict: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "url_conflict", Help: "Number of URL conflicts",
		}, []string{"type"}),

		urlCacheHit: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "url_cache_hit", Help: "Number of URL cache hits",
		}),
		urlCacheMiss: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "url_cache_miss", Help: "Number of URL cache misses",
		}),

		hashCacheSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hash_cache_size", Help: "Current size of the hash cache",
		}),
		hashPoolSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hash_pool_size", Help: "Current size of the hash pool",
		}, []string{"type", "pool_key"}),
	}

	for _, c := range []prometheus.Collector{
		s.urlCreationTotal, s.urlCreationSuccess, s.urlCreationFailure, s.urlCreationDuration,
		s.urlRedirectTotal, s.urlRedirectSuccess, s.urlRedirectNotFound, s.urlRedirectDuration,
		s.hashCacheHit, s.hashCacheMiss, s.hashCacheFallback, s.hashCacheReturn,
		s.hashGenerationTotal, s.hashGenerationOnTheFly, s.hashGenerationDuration,
		s.hashGenerationSuccess, s.hashGenerationError,
		s.rateLimitExceeded, s.urlValidationFailure, s.redirectValidationFailure,
		s.urlConflict, s.urlCacheHit, s.urlCacheMiss, s.hashCacheSize, s.hashPoolSize,
	} {
		reg.MustRegister(c)
	}

	return s
}

func (s *PrometheusSink) URLCreationTotal()                     { s.urlCreationTotal.Inc() }
func (s *PrometheusSink) URLCreationSuccess()                   { s.urlCreationSuccess.Inc() }
func (s *PrometheusSink) URLCreationFailure(reason string)       { s.urlCreationFailure.WithLabelValues(reason).Inc() }
func (s *PrometheusSink) URLCreationDuration(d time.Duration)    { s.urlCreationDuration.Observe(d.Seconds()) }

func (s *PrometheusSink) URLRedirectTotal()                  { s.urlRedirectTotal.Inc() }
func (s *PrometheusSink) URLRedirectSuccess()                { s.urlRedirectSuccess.Inc() }
func (s *PrometheusSink) URLRedirectNotFound()                { s.urlRedirectNotFound.Inc() }
func (s *PrometheusSink) URLRedirectDuration(d time.Duration) { s.urlRedirectDuration.Observe(d.Seconds()) }

func (s *PrometheusSink) HashCacheHit()      { s.hashCacheHit.Inc() }
func (s *PrometheusSink) HashCacheMiss()     { s.hashCacheMiss.Inc() }
func (s *PrometheusSink) HashCacheFallback() { s.hashCacheFallback.Inc() }
func (s *PrometheusSink) HashCacheReturn()   { s.hashCacheReturn.Inc() }

func (s *PrometheusSink) HashGenerationTotal()    { s.hashGenerationTotal.Inc() }
func (s *PrometheusSink) HashGenerationOnTheFly() { s.hashGenerationOnTheFly.Inc() }
func (s *PrometheusSink) HashGenerationDuration(d time.Duration) {
	s.hashGenerationDuration.Observe(d.Seconds())
}

func (s *PrometheusSink) HashGenerationSuccess(batchSize int) {
	s.hashGenerationSuccess.WithLabelValues(strconv.Itoa(batchSize)).Inc()
}

func (s *PrometheusSink) HashGenerationError(exceptionType string) {
	s.hashGenerationError.WithLabelValues(exceptionType).Inc()
}

func (s *PrometheusSink) RateLimitExceeded() { s.rateLimitExceeded.Inc() }

func (s *PrometheusSink) URLValidationFailure(reason string) {
	s.urlValidationFailure.WithLabelValues(reason).Inc()
}

func (s *PrometheusSink) RedirectValidationFailure(reason string) {
	s.redirectValidationFailure.WithLabelValues(reason).Inc()
}

func (s *PrometheusSink) URLConflict(kind string) { s.urlConflict.WithLabelValues(kind).Inc() }

func (s *PrometheusSink) URLCacheHit()  { s.urlCacheHit.Inc() }
func (s *PrometheusSink) URLCacheMiss() { s.urlCacheMiss.Inc() }

func (s *PrometheusSink) SetHashCacheSize(size float64) { s.hashCacheSize.Set(size) }

func (s *PrometheusSink) SetHashPoolSize(poolType, poolKey string, size float64) {
	s.hashPoolSize.WithLabelValues(poolType, poolKey).Set(size)
}

var _ Sink = (*PrometheusSink)(nil)
