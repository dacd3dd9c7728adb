// Package tracking records generation runs for prompt and model comparison.
// Runs accumulate in a matrix file; an advisory file lock serializes
// concurrent writers.
package tracking

import (
	"fmt"
	"time"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
)

// TierMetrics aggregates one tier's verdicts across a run.
type TierMetrics struct {
	Valid        int     `json:"valid"`
	Invalid      int     `json:"invalid"`
	ValidityRate float64 `json:"validity_rate"`
	AvgChars     float64 `json:"avg_chars"`
	MinChars     int     `json:"min_chars"`
	MaxChars     int     `json:"max_chars"`
}

// ExperimentRun is one batch execution under a fixed prompt version, model,
// and temperature.
type ExperimentRun struct {
	RunID         string                `json:"run_id"`
	Timestamp     string                `json:"timestamp"`
	PromptVersion string                `json:"prompt_version"`
	Model         string                `json:"model"`
	Temperature   float64               `json:"temperature"`
	Results       []models.RetryOutcome `json:"results"`

	TotalGenerations int     `json:"total_generations"`
	ValidCount       int     `json:"valid_count"`
	InvalidCount     int     `json:"invalid_count"`
	ValidityRate     float64 `json:"validity_rate"`

	TierMetrics map[models.Tier]TierMetrics `json:"tier_metrics"`
}

// NewRunID builds a sequential, timestamped run identifier.
func NewRunID(seq int, ts time.Time) string {
	return fmt.Sprintf("run_%03d_%s", seq, ts.Format("20060102_150405"))
}

// NewRun computes aggregate and per-tier metrics over the outcomes. Every
// supplied tier verdict counts as one generation.
func NewRun(runID string, promptVersion string, model string, temperature float64, results []models.RetryOutcome) ExperimentRun {
	run := ExperimentRun{
		RunID:         runID,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		PromptVersion: promptVersion,
		Model:         model,
		Temperature:   temperature,
		Results:       results,
		TierMetrics:   make(map[models.Tier]TierMetrics),
	}

	type accum struct {
		valid    int
		invalid  int
		charSum  int
		minChars int
		maxChars int
	}
	perTier := make(map[models.Tier]*accum)

	for _, outcome := range results {
		for tier, verdict := range outcome.Verdicts.Results {
			a := perTier[tier]
			if a == nil {
				a = &accum{minChars: verdict.CharCount, maxChars: verdict.CharCount}
				perTier[tier] = a
			}

			if verdict.IsValid {
				a.valid++
				run.ValidCount++
			} else {
				a.invalid++
				run.InvalidCount++
			}
			a.charSum += verdict.CharCount
			if verdict.CharCount < a.minChars {
				a.minChars = verdict.CharCount
			}
			if verdict.CharCount > a.maxChars {
				a.maxChars = verdict.CharCount
			}
			run.TotalGenerations++
		}
	}

	if run.TotalGenerations > 0 {
		run.ValidityRate = float64(run.ValidCount) / float64(run.TotalGenerations)
	}

	for tier, a := range perTier {
		total := a.valid + a.invalid
		run.TierMetrics[tier] = TierMetrics{
			Valid:        a.valid,
			Invalid:      a.invalid,
			ValidityRate: float64(a.valid) / float64(total),
			AvgChars:     float64(a.charSum) / float64(total),
			MinChars:     a.minChars,
			MaxChars:     a.maxChars,
		}
	}

	return run
}
