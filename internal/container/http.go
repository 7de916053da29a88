package container

import (
	"github.com/Kalex-k/urlshortener/internal/analytics"
	"github.com/Kalex-k/urlshortener/internal/handlers"
	"github.com/Kalex-k/urlshortener/internal/health"
	"github.com/Kalex-k/urlshortener/internal/messaging"
	"github.com/Kalex-k/urlshortener/internal/middleware"
	"github.com/Kalex-k/urlshortener/internal/shortener"
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// HTTPPackage provides the router, the Huma API, and registers every
// route: the shortener's two operations, the extended health check,
// and a Prometheus scrape endpoint.
func HTTPPackage(injector *do.Injector) {
	do.Provide(injector, func(_ *do.Injector) (*chi.Mux, error) {
		return chi.NewMux(), nil
	})

	do.Provide(injector, func(i *do.Injector) (huma.API, error) {
		router := do.MustInvoke[*chi.Mux](i)
		api := humachi.New(router, huma.DefaultConfig("URL Shortener", "1.0.0"))
		api.UseMiddleware(middleware.RequestMetaMiddleware(api))

		urlHandler := do.MustInvoke[*handlers.URLHandler](i)
		handlers.RegisterRoutes(api, urlHandler)

		healthHandler := do.MustInvoke[*health.Handler](i)
		health.RegisterRoutes(api, healthHandler)

		if reg, err := do.Invoke[*prometheus.Registry](i); err == nil {
			router.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		}

		return api, nil
	})

	do.Provide(injector, func(i *do.Injector) (*handlers.URLHandler, error) {
		service := do.MustInvoke[*shortener.Service](i)
		publishCreated := do.MustInvoke[messaging.Publish[analytics.URLCreatedEvent]](i)
		publishAccessed := do.MustInvoke[messaging.Publish[analytics.URLAccessedEvent]](i)
		logger := do.MustInvoke[*zap.Logger](i)

		return handlers.NewURLHandler(service, publishCreated, publishAccessed, logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (*health.Handler, error) {
		client := do.MustInvoke[*redis.Client](i)

		var pg health.Checker
		if pool, err := do.Invoke[*pgxpool.Pool](i); err == nil {
			pg = health.NewPostgresChecker(pool)
		}

		return health.NewHandler(health.NewRedisChecker(client), pg), nil
	})
}
