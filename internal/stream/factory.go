package stream

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/generator"
	redisconn "github.com/robinmordasiewicz/ollama-description-writer/internal/redis"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/stream/redis"
)

type Config struct {
	Provider string // redis today; kafka, sqs later
	Redis    *redis.StreamConfig
}

// NewConsumer connects the configured provider and returns a ready-to-Setup
// consumer. An empty provider falls back to redis.
func NewConsumer(
	ctx context.Context,
	cfg *Config,
	retrier *generator.Retrier,
	sink redis.OutcomeSink,
	model string,
	logger *zerolog.Logger,
) (Consumer, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = "redis"
	}

	switch provider {
	case "redis":
		if cfg.Redis == nil {
			return nil, fmt.Errorf("redis config required")
		}

		client, err := redisconn.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, 5, logger)
		if err != nil {
			return nil, err
		}

		return redis.NewConsumer(client, cfg.Redis, retrier, sink, model, logger), nil

	default:
		return nil, fmt.Errorf("unsupported stream provider: %s", provider)
	}
}
