package batch

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/rs/zerolog"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/rules"
)

const (
	FormatJSONL   = "jsonl"
	FormatSummary = "summary"
)

// Writer emits results in the selected format. JSONL writes one line per
// result as it arrives; summary accumulates and flushes aggregates on Close.
type Writer struct {
	w      io.Writer
	format string
	logger *zerolog.Logger

	enc *json.Encoder

	total       int
	failed      int
	allValid    int
	attemptsSum int
	tierValid   map[models.Tier]int
	tierSeen    map[models.Tier]int
	failures    []Result
}

func NewWriter(w io.Writer, format string, logger *zerolog.Logger) (*Writer, error) {
	switch format {
	case FormatJSONL, FormatSummary:
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}

	return &Writer{
		w:         w,
		format:    format,
		logger:    logger,
		enc:       json.NewEncoder(w),
		tierValid: make(map[models.Tier]int),
		tierSeen:  make(map[models.Tier]int),
	}, nil
}

func (w *Writer) Write(result Result) error {
	switch w.format {
	case FormatJSONL:
		return w.enc.Encode(result)
	case FormatSummary:
		w.collect(result)
		return nil
	}
	return nil
}

func (w *Writer) collect(result Result) {
	w.total++

	if result.Error != "" || result.Outcome == nil {
		w.failed++
		w.failures = append(w.failures, result)
		return
	}

	outcome := result.Outcome
	w.attemptsSum += outcome.Attempts
	if outcome.ValidCount == len(models.AllTiers()) {
		w.allValid++
	}
	for tier, verdict := range outcome.Verdicts.Results {
		w.tierSeen[tier]++
		if verdict.IsValid {
			w.tierValid[tier]++
		}
	}
}

// Close flushes the summary, if that format is active.
func (w *Writer) Close() error {
	if w.format != FormatSummary {
		return nil
	}

	succeeded := w.total - w.failed
	fmt.Fprintf(w.w, "Processed:  %d\n", w.total)
	fmt.Fprintf(w.w, "Succeeded:  %d (all tiers valid: %d)\n", succeeded, w.allValid)
	fmt.Fprintf(w.w, "Failed:     %d\n", w.failed)
	if succeeded > 0 {
		fmt.Fprintf(w.w, "Avg attempts: %.2f\n", float64(w.attemptsSum)/float64(succeeded))
	}

	fmt.Fprintln(w.w, "Tier validity:")
	for _, tier := range models.AllTiers() {
		limits, _ := rules.LimitsFor(tier)
		fmt.Fprintf(w.w, "  %-7s %d/%d (target %s chars)\n", tier+":", w.tierValid[tier], w.tierSeen[tier], limits.CharRange())
	}

	if len(w.failures) > 0 {
		sort.Slice(w.failures, func(i, j int) bool { return w.failures[i].LineNumber < w.failures[j].LineNumber })
		fmt.Fprintln(w.w, "Failures:")
		for _, f := range w.failures {
			fmt.Fprintf(w.w, "  line %d: %s\n", f.LineNumber, f.Error)
		}
	}

	return nil
}
