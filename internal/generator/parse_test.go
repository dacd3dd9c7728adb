package generator

import (
	"errors"
	"strings"
	"testing"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
)

func TestParseCandidateAcceptsPlainJSON(t *testing.T) {
	raw := `{"short": "Routing policies during node outage", "medium": "Traffic profile for gateway clusters", "long": "Network policy data for all clusters"}`

	candidate, err := parseCandidate(raw, 120)
	if err != nil {
		t.Fatalf("parseCandidate() error = %v", err)
	}
	if len(candidate.Descriptions) != 3 {
		t.Fatalf("got %d tiers, want 3", len(candidate.Descriptions))
	}
	if candidate.TokensUsed != 120 {
		t.Errorf("TokensUsed = %d, want 120", candidate.TokensUsed)
	}
	if got := candidate.Descriptions[models.TierShort]; got != "Routing policies during node outage" {
		t.Errorf("short = %q", got)
	}
}

func TestParseCandidateStripsMarkdownFences(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n{\"short\": \"Routing policies during node outage\"}\n```"},
		{"bare fence", "```\n{\"short\": \"Routing policies during node outage\"}\n```"},
		{"prose around object", "Here are the descriptions:\n{\"short\": \"Routing policies during node outage\"}\nLet me know if you need more."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate, err := parseCandidate(tt.raw, 0)
			if err != nil {
				t.Fatalf("parseCandidate() error = %v", err)
			}
			if got := candidate.Descriptions[models.TierShort]; got != "Routing policies during node outage" {
				t.Errorf("short = %q", got)
			}
		})
	}
}

func TestParseCandidateNormalizesTierKeys(t *testing.T) {
	raw := `{" SHORT ": "Routing policies during node outage", "Medium": "Traffic profile for gateway clusters"}`

	candidate, err := parseCandidate(raw, 0)
	if err != nil {
		t.Fatalf("parseCandidate() error = %v", err)
	}
	if _, ok := candidate.Descriptions[models.TierShort]; !ok {
		t.Error("padded upper-case key not folded to short tier")
	}
	if _, ok := candidate.Descriptions[models.TierMedium]; !ok {
		t.Error("mixed-case key not folded to medium tier")
	}
}

func TestParseCandidateDropsUnusableEntries(t *testing.T) {
	raw := `{
		"short": "Too small",
		"medium": "Traffic profile for gateway clusters",
		"long": 42,
		"summary": "Unknown keys are ignored entirely"
	}`

	candidate, err := parseCandidate(raw, 0)
	if err != nil {
		t.Fatalf("parseCandidate() error = %v", err)
	}
	if len(candidate.Descriptions) != 1 {
		t.Fatalf("got %d tiers, want 1: %v", len(candidate.Descriptions), candidate.Descriptions)
	}
	if _, ok := candidate.Descriptions[models.TierMedium]; !ok {
		t.Error("medium tier missing")
	}
}

func TestParseCandidateRejectsUnusableOutput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no object", "I cannot generate descriptions for that input."},
		{"invalid json", `{"short": "Routing policies during node outage"`},
		{"empty object", `{}`},
		{"all values degenerate", `{"short": "No", "medium": "Nope", "long": ""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseCandidate(tt.raw, 0); err == nil {
				t.Error("parseCandidate() accepted unusable output")
			}
		})
	}
}

func TestExtractJSONSlicesOutermostBraces(t *testing.T) {
	raw := `prefix {"short": "a", "nested": {"x": 1}} suffix`

	got, err := extractJSON(raw)
	if err != nil {
		t.Fatalf("extractJSON() error = %v", err)
	}
	if !strings.HasPrefix(got, "{") || !strings.HasSuffix(got, "}") {
		t.Errorf("extractJSON() = %q, want brace-delimited slice", got)
	}
	if !strings.Contains(got, `"nested"`) {
		t.Errorf("inner object lost: %q", got)
	}
}

func TestExtractJSONErrors(t *testing.T) {
	if _, err := extractJSON("no braces here"); err == nil {
		t.Error("extractJSON() accepted text without an object")
	}
	if _, err := extractJSON("} reversed {"); err == nil {
		t.Error("extractJSON() accepted reversed braces")
	}
	var sentinel error
	if _, sentinel = extractJSON(""); sentinel == nil {
		t.Error("extractJSON() accepted empty input")
	}
	if errors.Is(sentinel, ErrNoUsableResult) {
		t.Error("extraction failure must not alias the retry sentinel")
	}
}
