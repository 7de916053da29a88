package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes registers the URL shortener's two HTTP operations.
// Per-principal rate limiting (C11) is enforced inside shortener.Service
// itself, not at the route layer.
func RegisterRoutes(api huma.API, urlHandler *URLHandler) {
	huma.Register(api, huma.Operation{
		Method:      http.MethodPost,
		Path:        "/shorten",
		Summary:     "Create short URL",
		Description: "Allocates a short hash for the given URL and returns its short link.",
		Tags:        []string{"URLs"},
	}, urlHandler.CreateShortURL)

	huma.Register(api, huma.Operation{
		Method:      http.MethodGet,
		Path:        "/{hash}",
		Summary:     "Redirect to original URL",
		Description: "Resolves a short hash to its original URL and redirects to it.",
		Tags:        []string{"URLs"},
	}, urlHandler.RedirectToURL)
}
