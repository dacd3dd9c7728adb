package batch

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
)

func allValidOutcome() *models.RetryOutcome {
	results := make(map[models.Tier]models.ValidationVerdict)
	for _, tier := range models.AllTiers() {
		results[tier] = models.ValidationVerdict{Tier: tier, IsValid: true}
	}
	return &models.RetryOutcome{
		Descriptions: map[models.Tier]string{models.TierShort: "Routing policies during node outage"},
		Verdicts:     models.BatchVerdict{Results: results},
		ValidCount:   len(models.AllTiers()),
		Attempts:     1,
		EarlyExit:    true,
	}
}

func partialOutcome() *models.RetryOutcome {
	return &models.RetryOutcome{
		Descriptions: map[models.Tier]string{models.TierShort: "Routing policies during node outage"},
		Verdicts: models.BatchVerdict{Results: map[models.Tier]models.ValidationVerdict{
			models.TierShort: {Tier: models.TierShort, IsValid: true},
			models.TierLong:  {Tier: models.TierLong, IsValid: false, Errors: []string{"Too short: 20 < 350 chars"}},
		}},
		ValidCount: 1,
		Attempts:   3,
	}
}

func TestNewWriterRejectsUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if _, err := NewWriter(&buf, "csv", newTestLogger()); err == nil {
		t.Fatal("Expected an error for an unsupported format")
	}
}

func TestWriterJSONL(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf, FormatJSONL, newTestLogger())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	results := []Result{
		{LineNumber: 1, Name: "rate_limiter", Outcome: allValidOutcome(), DurationMS: 420},
		{LineNumber: 2, Name: "edge_router", Error: "no usable generation result"},
	}
	for _, result := range results {
		if err := writer.Write(result); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var first Result
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 1 is not valid JSON: %v", err)
	}
	if first.Name != "rate_limiter" || first.Outcome == nil || first.Outcome.ValidCount != len(models.AllTiers()) {
		t.Errorf("line 1 mismatch: %+v", first)
	}

	var second Result
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("line 2 is not valid JSON: %v", err)
	}
	if second.Error == "" || second.Outcome != nil {
		t.Errorf("line 2 mismatch: %+v", second)
	}
}

func TestWriterSummary(t *testing.T) {
	var buf bytes.Buffer
	writer, err := NewWriter(&buf, FormatSummary, newTestLogger())
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	results := []Result{
		{LineNumber: 1, Name: "rate_limiter", Outcome: allValidOutcome()},
		{LineNumber: 4, Name: "edge_router", Outcome: partialOutcome()},
		{LineNumber: 9, Name: "load_shedder", Error: "boom"},
	}
	for _, result := range results {
		if err := writer.Write(result); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	if buf.Len() != 0 {
		t.Error("summary format should buffer until Close")
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		"Processed:  3",
		"Succeeded:  2 (all tiers valid: 1)",
		"Failed:     1",
		"Avg attempts: 2.00",
		"short:",
		"line 9: boom",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q.\n%s", want, out)
		}
	}
}
