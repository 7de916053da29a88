package handlers

import (
	"context"
	"errors"
	"net/http"
	"path"
	"time"

	"github.com/Kalex-k/urlshortener/internal/analytics"
	"github.com/Kalex-k/urlshortener/internal/apperr"
	"github.com/Kalex-k/urlshortener/internal/messaging"
	"github.com/Kalex-k/urlshortener/internal/middleware"
	"github.com/Kalex-k/urlshortener/internal/shortener"
	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"
)

// URLHandler adapts the creation and resolution pipelines (C9/C10) to
// HTTP operations.
type URLHandler struct {
	service            *shortener.Service
	publishURLCreated  messaging.Publish[analytics.URLCreatedEvent]
	publishURLAccessed messaging.Publish[analytics.URLAccessedEvent]
	logger             *zap.Logger
}

// NewURLHandler creates a new URL handler.
func NewURLHandler(
	service *shortener.Service,
	publishURLCreated messaging.Publish[analytics.URLCreatedEvent],
	publishURLAccessed messaging.Publish[analytics.URLAccessedEvent],
	logger *zap.Logger,
) *URLHandler {
	return &URLHandler{
		service:            service,
		publishURLCreated:  publishURLCreated,
		publishURLAccessed: publishURLAccessed,
		logger:             logger,
	}
}

func (h *URLHandler) CreateShortURL(ctx context.Context, req *CreateShortURLRequest) (*CreateShortURLResponse, error) {
	meta := middleware.RequestMetaFromContext(ctx)

	shortURL, err := h.service.CreateShort(ctx, req.Body.URL, meta.Principal)
	if err != nil {
		return nil, mapCreateError(err)
	}

	event := &analytics.URLCreatedEvent{
		Hash:        path.Base(shortURL),
		OriginalURL: req.Body.URL,
		Principal:   meta.Principal,
		CreatedAt:   time.Now(),
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publishURLCreated(event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("shortUrl", shortURL),
			zap.Error(err),
		)
	}

	resp := &CreateShortURLResponse{}
	resp.Headers.Location = shortURL
	resp.Body.ShortURL = shortURL
	resp.Body.OriginalURL = req.Body.URL

	return resp, nil
}

func (h *URLHandler) RedirectToURL(ctx context.Context, req *RedirectRequest) (*RedirectResponse, error) {
	meta := middleware.RequestMetaFromContext(ctx)

	res, err := h.service.Resolve(ctx, req.Hash, meta.Principal)
	if err != nil {
		return nil, mapResolveError(err)
	}

	event := &analytics.URLAccessedEvent{
		Hash:       req.Hash,
		Principal:  meta.Principal,
		AccessedAt: time.Now(),
		FromCache:  res.FromCache,
		ClientIP:   meta.ClientIP,
		UserAgent:  meta.UserAgent,
		Referrer:   meta.Referrer,
	}

	if err := h.publishURLAccessed(event); err != nil {
		h.logger.Error("failed to publish access event",
			zap.String("hash", req.Hash),
			zap.Error(err),
		)
	}

	resp := &RedirectResponse{
		Status: http.StatusMovedPermanently,
	}
	resp.Headers.Location = res.URL

	return resp, nil
}

func mapCreateError(err error) error {
	switch {
	case errors.Is(err, apperr.ErrInvalidURL):
		return huma.Error400BadRequest("invalid url", err)
	case errors.Is(err, apperr.ErrRateLimited):
		return huma.Error429TooManyRequests("rate limit exceeded")
	case errors.Is(err, apperr.ErrNoAvailableHash):
		return huma.Error503ServiceUnavailable("no short hash available")
	default:
		return huma.Error500InternalServerError("failed to save url")
	}
}

func mapResolveError(err error) error {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return huma.Error404NotFound("short url not found")
	case errors.Is(err, apperr.ErrInvalidURL):
		return huma.Error400BadRequest("target url is blocked", err)
	case errors.Is(err, apperr.ErrRateLimited):
		return huma.Error429TooManyRequests("rate limit exceeded")
	default:
		return huma.Error500InternalServerError("failed to get url")
	}
}
