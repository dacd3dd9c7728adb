package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
)

// StoredOutcome is one persisted generation run.
type StoredOutcome struct {
	ID           int64                  `json:"id"`
	Name         string                 `json:"name"`
	Fingerprint  string                 `json:"fingerprint"`
	Strict       bool                   `json:"strict"`
	Model        string                 `json:"model"`
	Descriptions map[models.Tier]string `json:"descriptions"`
	Verdicts     models.BatchVerdict    `json:"verdicts"`
	ValidCount   int                    `json:"valid_count"`
	Attempts     int                    `json:"attempts"`
	EarlyExit    bool                   `json:"early_exit"`
	CreatedAt    time.Time              `json:"created_at"`
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS outcomes (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		fingerprint TEXT NOT NULL,
		strict BOOLEAN NOT NULL DEFAULT FALSE,
		model TEXT NOT NULL DEFAULT '',
		descriptions JSONB NOT NULL,
		verdicts JSONB NOT NULL,
		valid_count INT NOT NULL,
		attempts INT NOT NULL,
		early_exit BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS outcomes_fingerprint_idx ON outcomes (fingerprint)`,
	`CREATE INDEX IF NOT EXISTS outcomes_created_at_idx ON outcomes (created_at DESC)`,
}

// EnsureSchema creates the outcomes table and its indexes if missing.
// Statements run one at a time; pgx prepares each query separately.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}

	s.logger.Debug().Msg("Outcome schema ensured")
	return nil
}

// SaveOutcome inserts one generation run and returns its row id.
func (s *Store) SaveOutcome(ctx context.Context, req models.GenerationRequest, outcome models.RetryOutcome, strict bool, model string) (int64, error) {
	descriptions, err := json.Marshal(outcome.Descriptions)
	if err != nil {
		return 0, fmt.Errorf("failed to encode descriptions: %w", err)
	}
	verdicts, err := json.Marshal(outcome.Verdicts)
	if err != nil {
		return 0, fmt.Errorf("failed to encode verdicts: %w", err)
	}

	query := `
		INSERT INTO outcomes (name, fingerprint, strict, model, descriptions, verdicts, valid_count, attempts, early_exit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`

	var id int64
	err = s.Pool.QueryRow(ctx, query,
		req.Name, req.Fingerprint(), strict, model,
		descriptions, verdicts,
		outcome.ValidCount, outcome.Attempts, outcome.EarlyExit,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save outcome for %q: %w", req.Name, err)
	}

	s.logger.Info().Int64("id", id).Str("name", req.Name).Int("valid_count", outcome.ValidCount).Msg("Outcome saved")
	return id, nil
}

// ListRecent returns the newest runs, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]StoredOutcome, error) {
	query := `
		SELECT id, name, fingerprint, strict, model, descriptions, verdicts, valid_count, attempts, early_exit, created_at
		FROM outcomes
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := s.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []StoredOutcome
	for rows.Next() {
		var (
			row          StoredOutcome
			descriptions []byte
			verdicts     []byte
		)
		if err := rows.Scan(&row.ID, &row.Name, &row.Fingerprint, &row.Strict, &row.Model,
			&descriptions, &verdicts, &row.ValidCount, &row.Attempts, &row.EarlyExit, &row.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outcome row: %w", err)
		}
		if err := json.Unmarshal(descriptions, &row.Descriptions); err != nil {
			return nil, fmt.Errorf("failed to decode descriptions for row %d: %w", row.ID, err)
		}
		if err := json.Unmarshal(verdicts, &row.Verdicts); err != nil {
			return nil, fmt.Errorf("failed to decode verdicts for row %d: %w", row.ID, err)
		}
		outcomes = append(outcomes, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return outcomes, nil
}
