// Package store persists generation outcomes to Postgres.
package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
}

func (c Config) ConnectionString() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s", c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// ConfigFromEnv reads the POSTGRES_* component variables. POSTGRES_DSN, when
// set, takes precedence over the assembled string; callers handle that.
func ConfigFromEnv() Config {
	return Config{
		Host:     envOr("POSTGRES_HOST", "localhost"),
		Port:     envOr("POSTGRES_PORT", "5432"),
		User:     envOr("POSTGRES_USER", "postgres"),
		Password: envOr("POSTGRES_PASSWORD", "postgres"),
		Database: envOr("POSTGRES_DB", "descriptions"),
		SSLMode:  envOr("POSTGRES_SSLMODE", "disable"),
	}
}

func envOr(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

type Store struct {
	Pool   *pgxpool.Pool
	logger *zerolog.Logger
}

// Connect opens a pool against dsn and verifies it with a ping, retrying with
// exponential backoff up to attempts times.
func Connect(ctx context.Context, dsn string, attempts int, logger *zerolog.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database pool: %w", err)
	}

	for i := range attempts {
		if i > 0 {
			backoff := time.Duration(1<<uint(i)) * time.Second
			logger.Info().Dur("backoff", backoff).Msg("Waiting before database retry")
			select {
			case <-ctx.Done():
				pool.Close()
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		err = pool.Ping(ctx)
		if err == nil {
			logger.Info().Int("attempts_needed", i+1).Msg("Database connected")
			return &Store{Pool: pool, logger: logger}, nil
		}

		logger.Warn().Err(err).Int("attempt", i+1).Int("max_attempts", attempts).Msg("Database ping failed")
	}

	pool.Close()
	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, err)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) Close() {
	s.Pool.Close()
}
