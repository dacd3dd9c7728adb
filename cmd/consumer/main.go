package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/setup"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/store"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/stream"
	streamredis "github.com/robinmordasiewicz/ollama-description-writer/internal/stream/redis"
)

const (
	streamName = "description-requests"
	groupName  = "description-writers"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	streamCfg := &stream.Config{
		Provider: os.Getenv("STREAM_PROVIDER"),
		Redis: streamredis.NewStreamConfig(
			cfg.RedisAddr,
			os.Getenv("REDIS_PASSWORD"),
			streamName,
			groupName,
			os.Getenv("HOSTNAME"),
		),
	}

	// Outcome store. Without a DSN the consumer still runs, it just
	// stops persisting.
	var sink streamredis.OutcomeSink
	dsn := cfg.PostgresDSN
	if dsn == "" && os.Getenv("POSTGRES_HOST") != "" {
		dsn = store.ConfigFromEnv().ConnectionString()
	}
	if dsn == "" {
		log.Warn().Msg("No Postgres DSN configured, outcomes will not be persisted")
	} else {
		st, err := store.Connect(ctx, dsn, 5, &logger)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Postgres")
		}
		defer st.Close()

		if err := st.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure outcomes schema")
		}
		sink = st
	}

	consumer, err := stream.NewConsumer(ctx, streamCfg, deps.Retrier, sink, cfg.ActiveModel(), &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create stream consumer")
	}

	// Setup consumer
	err = consumer.Setup(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to setup consumer")
	}

	log.Info().
		Str("stream", streamName).
		Str("group", groupName).
		Str("model", cfg.ActiveModel()).
		Msg("Consuming generation requests")

	// Start consumer
	go func() {
		if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error().Err(err).Msg("Consumer stopped with error")
		}
	}()

	// Wait for context to be done
	<-ctx.Done()
	logger.Info().Msg("Shutting down...")

	log.Info().Msg("Description writer consumer stopped")
}
