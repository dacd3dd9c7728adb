package tracking

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rs/zerolog"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
)

const lockRetryDelay = 100 * time.Millisecond

// Tracker serializes matrix updates across processes with an advisory file
// lock, so parallel batch runs append instead of clobbering each other.
type Tracker struct {
	path   string
	lock   *flock.Flock
	logger *zerolog.Logger
}

func NewTracker(path string, logger *zerolog.Logger) *Tracker {
	return &Tracker{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: logger,
	}
}

// RecordRun loads the matrix, appends a run built from results, and writes it
// back, all under the lock. Lock acquisition retries until ctx is done.
func (t *Tracker) RecordRun(ctx context.Context, promptVersion string, model string, temperature float64, results []models.RetryOutcome) (ExperimentRun, error) {
	// The lock file lives next to the matrix; its directory must exist first.
	if dir := filepath.Dir(t.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ExperimentRun{}, fmt.Errorf("failed to create matrix directory: %w", err)
		}
	}

	locked, err := t.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return ExperimentRun{}, fmt.Errorf("failed to acquire matrix lock: %w", err)
	}
	if !locked {
		return ExperimentRun{}, fmt.Errorf("matrix lock unavailable")
	}
	defer func() {
		if err := t.lock.Unlock(); err != nil {
			t.logger.Warn().Err(err).Msg("Failed to release matrix lock")
		}
	}()

	matrix, err := LoadMatrix(t.path)
	if err != nil {
		return ExperimentRun{}, err
	}

	runID := NewRunID(len(matrix.Runs)+1, time.Now())
	run := NewRun(runID, promptVersion, model, temperature, results)
	matrix.AddRun(run)

	if err := matrix.Save(t.path); err != nil {
		return ExperimentRun{}, err
	}

	t.logger.Info().
		Str("run_id", run.RunID).
		Str("prompt_version", run.PromptVersion).
		Int("total", run.TotalGenerations).
		Float64("validity_rate", run.ValidityRate).
		Str("best_run_id", matrix.BestRunID).
		Msg("Experiment run recorded")

	return run, nil
}

// Load returns the current matrix without taking the lock.
func (t *Tracker) Load() (*ExperimentMatrix, error) {
	return LoadMatrix(t.path)
}
