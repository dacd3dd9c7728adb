// Package redis consumes generation requests from a Redis stream via a
// consumer group and runs them through the retry pipeline.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/generator"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
)

// Message is the JSON payload carried in the stream entry's "payload" field.
// Strict is optional and promotes warnings to errors for that request only.
type Message struct {
	models.GenerationRequest
	Strict bool `json:"strict,omitempty"`
}

// OutcomeSink persists finished runs. A nil sink disables persistence.
type OutcomeSink interface {
	SaveOutcome(ctx context.Context, req models.GenerationRequest, outcome models.RetryOutcome, strict bool, model string) (int64, error)
}

type Consumer struct {
	client       *redis.Client
	stream       string
	groupID      string
	consumerName string
	retrier      *generator.Retrier
	sink         OutcomeSink
	model        string
	logger       *zerolog.Logger
}

func NewConsumer(client *redis.Client, cfg *StreamConfig, retrier *generator.Retrier, sink OutcomeSink, model string, logger *zerolog.Logger) *Consumer {
	return &Consumer{
		client:       client,
		stream:       cfg.Stream,
		groupID:      cfg.Group,
		consumerName: cfg.ConsumerName,
		retrier:      retrier,
		sink:         sink,
		model:        model,
		logger:       logger,
	}
}

func (c *Consumer) Setup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.groupID, "0").Err()
	if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
		return err
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info().
		Str("stream", c.stream).
		Str("group", c.groupID).
		Str("consumer", c.consumerName).
		Msg("Consumer started")

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msgs, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
			Group:    c.groupID,
			Consumer: c.consumerName,
			Streams:  []string{c.stream, ">"},
			Count:    1,
			Block:    2 * time.Second,
		}).Result()

		if err != nil {
			if errors.Is(err, redis.Nil) {
				// block timeout, no message -> poll again
				continue
			}

			if ctx.Err() != nil {
				return ctx.Err()
			}

			c.logger.Error().Err(err).Msg("Failed to read from stream")
			time.Sleep(time.Second)
			continue
		}

		for _, msg := range msgs[0].Messages {
			c.process(ctx, msg)
		}
	}
}

func (c *Consumer) Stop() error {
	// The client is owned by whoever built the consumer.
	return nil
}

// process runs one stream entry through the pipeline. Malformed entries are
// acked after logging so they are not redelivered forever; persistence
// failures are logged but do not block the ack, since re-running the model
// for a storage hiccup costs more than the lost row.
func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	c.logger.Info().Str("id", msg.ID).Msg("Message received")

	payload, ok := msg.Values["payload"].(string)
	if !ok {
		c.logger.Error().Str("id", msg.ID).Msg("Missing payload field")
		c.ack(ctx, msg.ID)
		return
	}

	var message Message
	if err := json.Unmarshal([]byte(payload), &message); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to decode message")
		c.ack(ctx, msg.ID)
		return
	}

	if err := message.Normalize(); err != nil {
		c.logger.Error().Err(err).Str("id", msg.ID).Msg("Rejected malformed generation request")
		c.ack(ctx, msg.ID)
		return
	}

	outcome, err := c.retrier.Run(ctx, message.GenerationRequest, message.Strict)
	if err != nil {
		c.logger.Error().Err(err).
			Str("id", msg.ID).
			Str("name", message.Name).
			Int("attempts", outcome.Attempts).
			Msg("Generation produced nothing usable")
		c.ack(ctx, msg.ID)
		return
	}

	c.logger.Info().
		Str("id", msg.ID).
		Str("name", message.Name).
		Int("valid_count", outcome.ValidCount).
		Int("attempts", outcome.Attempts).
		Bool("early_exit", outcome.EarlyExit).
		Msg("Generation complete")

	if c.sink != nil {
		if _, err := c.sink.SaveOutcome(ctx, message.GenerationRequest, outcome, message.Strict, c.model); err != nil {
			c.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to persist outcome")
		}
	}

	c.ack(ctx, msg.ID)
}

func (c *Consumer) ack(ctx context.Context, msgID string) {
	if err := c.client.XAck(ctx, c.stream, c.groupID, msgID).Err(); err != nil {
		c.logger.Error().Err(err).Str("id", msgID).Msg("Failed to ACK message")
	}
}
