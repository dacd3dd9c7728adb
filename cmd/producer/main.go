package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	redisconn "github.com/robinmordasiewicz/ollama-description-writer/internal/redis"
	streamredis "github.com/robinmordasiewicz/ollama-description-writer/internal/stream/redis"
)

func main() {
	data := flag.String("d", "", "Inline JSON generation request")
	input := flag.String("input", "", "JSONL file of generation requests, '-' for stdin")
	stream := flag.String("stream", "description-requests", "Stream name")
	flag.Parse()

	if *data == "" && *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: producer -d '<json>' | producer -input requests.jsonl")
		flag.PrintDefaults()
		os.Exit(1)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if err := run(*data, *input, *stream); err != nil {
		log.Error().Err(err).Msg("producer failed")
		os.Exit(1)
	}
}

func run(data, input, stream string) error {
	_ = godotenv.Load()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	ctx := context.Background()
	client, err := redisconn.Connect(ctx, addr, os.Getenv("REDIS_PASSWORD"), 3, &log.Logger)
	if err != nil {
		return err
	}
	defer client.Close()

	if data != "" {
		return publish(ctx, client, stream, []byte(data))
	}

	return publishFile(ctx, client, stream, input)
}

// publish validates the payload locally before putting it on the stream. The
// raw bytes go on the wire; the consumer normalizes its own copy.
func publish(ctx context.Context, client *redis.Client, stream string, payload []byte) error {
	var msg streamredis.Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("invalid request payload: %w", err)
	}
	if err := msg.Normalize(); err != nil {
		return fmt.Errorf("invalid request payload: %w", err)
	}

	id, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{"payload": string(payload)},
	}).Result()
	if err != nil {
		return err
	}

	log.Info().Str("stream", stream).Str("id", id).Str("name", msg.Name).Msg("Published successfully!")
	return nil
}

func publishFile(ctx context.Context, client *redis.Client, stream string, input string) error {
	var reader io.Reader
	if input == "-" {
		reader = os.Stdin
	} else {
		f, err := os.Open(input)
		if err != nil {
			return fmt.Errorf("failed to open input file: %w", err)
		}
		defer f.Close()
		reader = f
	}

	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNumber := 0
	published := 0
	failed := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := publish(ctx, client, stream, []byte(line)); err != nil {
			log.Error().Err(err).Int("line", lineNumber).Msg("Failed to publish")
			failed++
			continue
		}
		published++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	log.Info().Int("published", published).Int("failed", failed).Msg("Producer finished")
	if failed > 0 {
		return fmt.Errorf("%d of %d lines failed to publish", failed, published+failed)
	}
	return nil
}
