package tracking

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
)

const defaultProjectName = "description-writer"

// ExperimentMatrix accumulates runs and remembers the best one by validity
// rate. Ties keep the earlier run.
type ExperimentMatrix struct {
	ProjectName      string          `json:"project_name"`
	Runs             []ExperimentRun `json:"runs"`
	BestRunID        string          `json:"best_run_id,omitempty"`
	BestValidityRate float64         `json:"best_validity_rate"`
}

func NewMatrix() *ExperimentMatrix {
	return &ExperimentMatrix{ProjectName: defaultProjectName}
}

func (m *ExperimentMatrix) AddRun(run ExperimentRun) {
	m.Runs = append(m.Runs, run)
	if run.ValidityRate > m.BestValidityRate {
		m.BestValidityRate = run.ValidityRate
		m.BestRunID = run.RunID
	}
}

func (m *ExperimentMatrix) GetRun(runID string) (ExperimentRun, bool) {
	for _, run := range m.Runs {
		if run.RunID == runID {
			return run, true
		}
	}
	return ExperimentRun{}, false
}

// RunSummary is one comparison row without the per-result payload.
type RunSummary struct {
	RunID         string
	Timestamp     string
	PromptVersion string
	Model         string
	Temperature   float64
	Total         int
	Valid         int
	Invalid       int
	ValidityRate  float64
	TierRates     map[models.Tier]float64
}

// Comparison returns one summary row per run, in insertion order.
func (m *ExperimentMatrix) Comparison() []RunSummary {
	rows := make([]RunSummary, 0, len(m.Runs))
	for _, run := range m.Runs {
		row := RunSummary{
			RunID:         run.RunID,
			Timestamp:     run.Timestamp,
			PromptVersion: run.PromptVersion,
			Model:         run.Model,
			Temperature:   run.Temperature,
			Total:         run.TotalGenerations,
			Valid:         run.ValidCount,
			Invalid:       run.InvalidCount,
			ValidityRate:  run.ValidityRate,
			TierRates:     make(map[models.Tier]float64, len(run.TierMetrics)),
		}
		for tier, metrics := range run.TierMetrics {
			row.TierRates[tier] = metrics.ValidityRate
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteComparison renders one line per run plus per-tier detail for the
// best run. The best run is marked with an asterisk.
func (m *ExperimentMatrix) WriteComparison(w io.Writer) {
	fmt.Fprintf(w, "Project: %s (%d runs)\n", m.ProjectName, len(m.Runs))
	for _, row := range m.Comparison() {
		marker := " "
		if row.RunID == m.BestRunID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %s  %s  prompt=%s model=%s temp=%.2f  valid %d/%d (%.1f%%)\n",
			marker, row.RunID, row.Timestamp, row.PromptVersion, row.Model,
			row.Temperature, row.Valid, row.Total, row.ValidityRate*100)
	}

	best, ok := m.GetRun(m.BestRunID)
	if !ok {
		return
	}
	fmt.Fprintf(w, "Best run: %s (%.1f%% valid", best.RunID, best.ValidityRate*100)
	for _, tier := range models.AllTiers() {
		if metrics, found := best.TierMetrics[tier]; found {
			fmt.Fprintf(w, ", %s %.1f%%", tier, metrics.ValidityRate*100)
		}
	}
	fmt.Fprintln(w, ")")
}

// LoadMatrix reads the matrix file; a missing file yields an empty matrix.
func LoadMatrix(path string) (*ExperimentMatrix, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return NewMatrix(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load matrix: %w", err)
	}

	var m ExperimentMatrix
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode matrix %s: %w", path, err)
	}
	if m.ProjectName == "" {
		m.ProjectName = defaultProjectName
	}
	return &m, nil
}

// Save writes the matrix as indented JSON, creating parent directories.
func (m *ExperimentMatrix) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create matrix directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode matrix: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write matrix: %w", err)
	}
	return nil
}
