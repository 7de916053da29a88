// Package shortener is the creation and resolution pipelines (C9/C10):
// normalize and dedup a raw URL, allocate a hash through the pool with
// store/on-the-fly fallback, persist it, and populate the two-direction
// cache; on the read side, resolve a hash cache-first with store
// fallback and cache repair. Grounded on original_source's UrlService
// and the teacher's own shortener package (kept for its Code/ShortURL
// naming, generalized to the sequence-derived identifier model).
package shortener

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kalex-k/urlshortener/internal/apperr"
	"github.com/Kalex-k/urlshortener/internal/base62"
	"github.com/Kalex-k/urlshortener/internal/cache"
	"github.com/Kalex-k/urlshortener/internal/hashstore"
	"github.com/Kalex-k/urlshortener/internal/metrics"
	"github.com/Kalex-k/urlshortener/internal/pool"
	"github.com/Kalex-k/urlshortener/internal/ratelimit"
	"github.com/Kalex-k/urlshortener/internal/retry"
	"github.com/Kalex-k/urlshortener/internal/urlstore"
	"github.com/Kalex-k/urlshortener/internal/validate"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Config configures the pipelines beyond what their collaborators
// already own: the base URL prefix for built short URLs, the bounded
// fallback concurrency gate, and the validation settings applied at
// creation and redirect time.
type Config struct {
	BaseURL               string
	FallbackMaxConcurrent int64
	FallbackAcquireWait   time.Duration
	Validation            validate.Config
}

// DefaultConfig matches spec.md §6: 5 concurrent on-the-fly fallback
// callers, each waiting at most 1s to acquire a slot.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:               baseURL,
		FallbackMaxConcurrent: 5,
		FallbackAcquireWait:   1 * time.Second,
		Validation:            validate.DefaultConfig(),
	}
}

// Service implements the creation pipeline (C9) and the resolution
// pipeline (C10) over a shared set of collaborators.
type Service struct {
	pool    pool.Pool
	hashes  hashstore.Store
	urls    urlstore.Store
	cache   cache.Cache
	limiter ratelimit.Limiter
	metrics metrics.Sink
	logger  *zap.Logger

	insertRetry *retry.Executor
	fallbackSem *semaphore.Weighted

	creationHook validate.Hook
	redirectHook validate.Hook

	cfg Config
}

// New wires a Service. limiter may be nil to disable rate limiting
// entirely (tests only — production always gates through a real Limiter).
func New(
	p pool.Pool,
	hashes hashstore.Store,
	urls urlstore.Store,
	c cache.Cache,
	limiter ratelimit.Limiter,
	sink metrics.Sink,
	logger *zap.Logger,
	cfg Config,
) *Service {
	if sink == nil {
		sink = metrics.NoopSink{}
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	if cfg.FallbackMaxConcurrent < 1 {
		cfg.FallbackMaxConcurrent = 5
	}

	if cfg.FallbackAcquireWait <= 0 {
		cfg.FallbackAcquireWait = 1 * time.Second
	}

	insertClassify := func(err error) bool {
		return err != nil && errors.Is(err, apperr.ErrIntegrity) && !errors.Is(err, apperr.ErrConflictHash)
	}

	return &Service{
		pool:    p,
		hashes:  hashes,
		urls:    urls,
		cache:   c,
		limiter: limiter,
		metrics: sink,
		logger:  logger,
		insertRetry: retry.New("url-insert", retry.Policy{
			MaxAttempts: retry.DefaultAttempts,
			Delay:       retry.DefaultDelay,
			Classify:    insertClassify,
		}, logger),
		fallbackSem:  semaphore.NewWeighted(cfg.FallbackMaxConcurrent),
		creationHook: validate.CreationHook,
		redirectHook: validate.RedirectHook(cfg.Validation),
		cfg:          cfg,
	}
}

// CreateShort runs the full creation pipeline (C9) for principal and
// returns the short URL built from baseURL and the allocated hash.
func (s *Service) CreateShort(ctx context.Context, rawURL, principal string) (string, error) {
	if err := s.gate(ctx, principal); err != nil {
		return "", err
	}

	start := time.Now()
	s.metrics.URLCreationTotal()

	shortURL, err := s.createShort(ctx, rawURL)

	s.metrics.URLCreationDuration(time.Since(start))

	if err != nil {
		s.metrics.URLCreationFailure(failureReason(err))
		return "", err
	}

	s.metrics.URLCreationSuccess()

	return shortURL, nil
}

func (s *Service) createShort(ctx context.Context, rawURL string) (string, error) {
	if err := validate.ValidateRaw(rawURL, s.cfg.Validation); err != nil {
		s.metrics.URLValidationFailure("invalid_url")
		return "", err
	}

	normalized, err := validate.Normalize(rawURL, s.cfg.Validation)
	if err != nil {
		s.metrics.URLValidationFailure("invalid_url")
		return "", err
	}

	if err := s.creationHook(ctx, normalized); err != nil {
		s.metrics.URLValidationFailure("blocked_host")
		return "", err
	}

	if hash, found := s.cache.GetHashByURL(ctx, normalized); found {
		s.cache.Put(ctx, hash, normalized) // refresh TTL
		return s.buildShortURL(hash), nil
	}

	if hash, found, err := s.urls.FindByURL(ctx, normalized); err != nil {
		return "", fmt.Errorf("shortener: dedup lookup: %w", err)
	} else if found {
		s.cache.Put(ctx, hash, normalized)
		return s.buildShortURL(hash), nil
	}

	hash, err := s.claimHash(ctx)
	if err != nil {
		return "", err
	}

	return s.persist(ctx, hash, normalized)
}

// claimHash runs §4.9 step 5: pool first, then a bounded-concurrency
// fallback to the durable store's claimAvailable, then on-the-fly
// sequence-derived generation as the last resort.
func (s *Service) claimHash(ctx context.Context) (string, error) {
	if hash, ok, err := s.pool.PopFront(ctx); err != nil {
		s.logger.Warn("pool pop front failed, falling back to store", zap.Error(err))
	} else if ok {
		s.metrics.HashCacheHit()
		return hash, nil
	}

	s.metrics.HashCacheMiss()

	waitCtx, cancel := context.WithTimeout(ctx, s.cfg.FallbackAcquireWait)
	defer cancel()

	if err := s.fallbackSem.Acquire(waitCtx, 1); err != nil {
		return "", fmt.Errorf("shortener: %w: fallback permit unavailable", apperr.ErrNoAvailableHash)
	}
	defer s.fallbackSem.Release(1)

	claimed, err := s.hashes.ClaimAvailable(ctx, 1)
	if err != nil {
		return "", fmt.Errorf("shortener: claim available: %w", err)
	}

	if len(claimed) > 0 {
		s.metrics.HashCacheFallback()
		return claimed[0], nil
	}

	return s.generateOnTheFly(ctx)
}

// generateOnTheFly is the last-resort path named in spec.md §9: draw
// one fresh sequence number, encode it, and mark it used directly —
// skipping the pool and the batch generator entirely.
func (s *Service) generateOnTheFly(ctx context.Context) (string, error) {
	numbers, err := s.hashes.NextSequence(ctx, 1)
	if err != nil {
		return "", fmt.Errorf("shortener: next sequence: %w", err)
	}

	if len(numbers) == 0 {
		return "", fmt.Errorf("shortener: %w: sequence exhausted", apperr.ErrNoAvailableHash)
	}

	hash, err := base62.Encode(numbers[0])
	if err != nil {
		return "", fmt.Errorf("shortener: encode on-the-fly hash: %w", err)
	}

	if err := s.hashes.MarkUsed(ctx, hash); err != nil {
		return "", fmt.Errorf("shortener: mark used: %w", err)
	}

	s.metrics.HashGenerationOnTheFly()

	return hash, nil
}

// persist runs §4.9 step 6: insert under a retry policy that only
// retries integrity errors other than a URL conflict, resolving a URL
// conflict by returning the claimed hash to the pool and reporting the
// winner's hash, and propagating a hash collision as fatal.
func (s *Service) persist(ctx context.Context, hash, normalized string) (string, error) {
	var inserted bool

	err := s.insertRetry.Execute(ctx, func(ctx context.Context) error {
		var execErr error

		inserted, execErr = s.urls.Insert(ctx, hash, normalized)

		return execErr
	})
	if err != nil {
		if errors.Is(err, apperr.ErrConflictHash) {
			s.metrics.URLConflict("hash")
		}

		return "", fmt.Errorf("shortener: persist: %w", err)
	}

	if !inserted {
		s.metrics.URLConflict("url")

		if pushErr := s.pool.PushBack(ctx, []string{hash}); pushErr != nil {
			s.logger.Warn("failed to return claimed hash to pool after url conflict",
				zap.String("hash", hash), zap.Error(pushErr))
		} else {
			s.metrics.HashCacheReturn()
		}

		winner, found, findErr := s.urls.FindByURL(ctx, normalized)
		if findErr != nil {
			return "", fmt.Errorf("shortener: dedup after conflict: %w", findErr)
		}

		if !found {
			return "", fmt.Errorf("shortener: %w: url vanished after conflict", apperr.ErrIntegrity)
		}

		s.cache.Put(ctx, winner, normalized)

		return s.buildShortURL(winner), nil
	}

	s.cache.Put(ctx, hash, normalized)

	return s.buildShortURL(hash), nil
}

// ReturnHash is the explicit release path named in spec.md §6's caller
// surface, used by callers that claimed a hash through some other
// means (e.g. a higher-level saga) and need to give it back.
func (s *Service) ReturnHash(ctx context.Context, hash string) error {
	return s.pool.PushBack(ctx, []string{hash})
}

// Resolution is the result of the resolution pipeline (C10): the
// original URL and whether it was served from cache.
type Resolution struct {
	URL       string
	FromCache bool
}

// Resolve runs the resolution pipeline (C10) for principal.
func (s *Service) Resolve(ctx context.Context, hash, principal string) (Resolution, error) {
	if err := s.gate(ctx, principal); err != nil {
		return Resolution{}, err
	}

	start := time.Now()
	s.metrics.URLRedirectTotal()

	res, err := s.resolve(ctx, hash)

	s.metrics.URLRedirectDuration(time.Since(start))

	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.metrics.URLRedirectNotFound()
		}

		return Resolution{}, err
	}

	s.metrics.URLRedirectSuccess()

	return res, nil
}

func (s *Service) resolve(ctx context.Context, hash string) (Resolution, error) {
	if url, found := s.cache.Get(ctx, hash); found {
		if err := s.redirectHook(ctx, url); err != nil {
			s.metrics.RedirectValidationFailure("blocked_host")
			return Resolution{}, err
		}

		return Resolution{URL: url, FromCache: true}, nil
	}

	url, found, err := s.urls.FindByHash(ctx, hash)
	if err != nil {
		return Resolution{}, fmt.Errorf("shortener: resolve: %w", err)
	}

	if !found {
		return Resolution{}, fmt.Errorf("shortener: %w: hash %q", apperr.ErrNotFound, hash)
	}

	s.cache.Put(ctx, hash, url)

	if err := s.redirectHook(ctx, url); err != nil {
		s.metrics.RedirectValidationFailure("blocked_host")
		return Resolution{}, err
	}

	return Resolution{URL: url, FromCache: false}, nil
}

func (s *Service) gate(ctx context.Context, principal string) error {
	if s.limiter == nil {
		return nil
	}

	allowed, err := s.limiter.Allow(ctx, ratelimit.KeyForPrincipal(principal))
	if err != nil {
		return fmt.Errorf("shortener: rate limit check: %w", err)
	}

	if !allowed {
		s.metrics.RateLimitExceeded()
		return fmt.Errorf("shortener: %w", apperr.ErrRateLimited)
	}

	return nil
}

func (s *Service) buildShortURL(hash string) string {
	base := s.cfg.BaseURL
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}

	return base + "/" + hash
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, apperr.ErrInvalidURL):
		return "validation_error"
	case errors.Is(err, apperr.ErrNoAvailableHash):
		return "no_hash_available"
	case errors.Is(err, apperr.ErrConflictHash):
		return "hash_conflict"
	case errors.Is(err, apperr.ErrRateLimited):
		return "rate_limited"
	default:
		return "unknown_error"
	}
}
