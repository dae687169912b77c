//go:build !gcloud

package main

import (
	"context"
	"log/slog"

	"github.com/KasumiMercury/primind-habit-reminder/internal/config"
	"github.com/KasumiMercury/primind-habit-reminder/internal/infra/pubsub"
	"github.com/KasumiMercury/primind-habit-reminder/internal/observability"
	"github.com/KasumiMercury/primind-habit-reminder/internal/observability/logging"
)

func initPublisher(ctx context.Context, cfg *config.Config) (pubsub.Publisher, error) {
	if cfg.PubSub.NatsURL == "" {
		slog.Warn("NATS_URL not set, event publishing disabled")
		return nil, nil
	}

	publisher, err := pubsub.NewNATSPublisherWithStream(ctx, pubsub.NATSPublisherConfig{
		URL: cfg.PubSub.NatsURL,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("NATS publisher initialized", "url", cfg.PubSub.NatsURL)
	return publisher, nil
}

func initObservability(ctx context.Context, cfg *config.Config) (*observability.Resources, error) {
	return observability.Init(ctx, observabilityConfig(
		cfg,
		logging.Environment(cfg.Tracing.Environment),
		cfg.Tracing.ServiceName,
		Commit,
		"",
	))
}
