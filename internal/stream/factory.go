package stream

import (
	"context"
	"fmt"

	"github.com/povarna/sonar-sweep/internal/metrics"
	red "github.com/povarna/sonar-sweep/internal/redis"
	"github.com/povarna/sonar-sweep/internal/stream/redis"
	"github.com/rs/zerolog"
)

func NewStreamConsumer(
	ctx context.Context,
	cfg *StreamConfig,
	m *metrics.Metrics,
	logger *zerolog.Logger,
) (StreamConsumer, error) {

	// If provider is empty, fallback to the default configuration.
	provider := cfg.Provider
	if provider == "" {
		provider = "redis"
	}

	switch provider {
	case "redis":
		if cfg.RedisConfig == nil {
			return nil, fmt.Errorf("redis config required")
		}

		maxRetries := cfg.MaxRetries
		if maxRetries == 0 {
			maxRetries = 5
		}

		client, err := red.Connect(ctx, red.Options{
			Addr:     cfg.RedisConfig.RedisAddr,
			Password: cfg.RedisConfig.RedisPassword,
			Attempts: maxRetries,
		}, logger)
		if err != nil {
			return nil, err
		}

		return redis.NewConsumer(client, cfg.RedisConfig, cfg.WindowWidth, m, logger), nil

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", cfg.Provider)
	}
}
