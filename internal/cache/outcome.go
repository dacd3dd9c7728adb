// Package cache stores generation outcomes in Redis keyed by request
// fingerprint, so repeated requests skip the model entirely.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
)

const keyPrefix = "outcome:"

type OutcomeCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zerolog.Logger
}

func NewOutcomeCache(client *redis.Client, ttl time.Duration, logger *zerolog.Logger) *OutcomeCache {
	return &OutcomeCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the cached outcome for key, or found=false on a miss.
func (c *OutcomeCache) Get(ctx context.Context, key string) (*models.RetryOutcome, bool, error) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}

	var outcome models.RetryOutcome
	if err := json.Unmarshal([]byte(raw), &outcome); err != nil {
		// Undecodable entry; delete it so the next run refills the slot.
		if delErr := c.client.Del(ctx, keyPrefix+key).Err(); delErr != nil {
			c.logger.Warn().Err(delErr).Str("key", key).Msg("Failed to drop bad cache entry")
		}
		return nil, false, fmt.Errorf("cache decode: %w", err)
	}

	return &outcome, true, nil
}

// Set stores the outcome under key for the configured TTL.
func (c *OutcomeCache) Set(ctx context.Context, key string, outcome models.RetryOutcome) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}

	if err := c.client.Set(ctx, keyPrefix+key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	c.logger.Debug().Str("key", key).Dur("ttl", c.ttl).Msg("Outcome cached")
	return nil
}
