package prompt

import (
	"strings"
	"testing"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/rules"
)

func testRequest() models.GenerationRequest {
	return models.GenerationRequest{
		Name:     "rate_limiter",
		Features: []string{"token bucket", "per-client quotas"},
		Category: "traffic management",
	}
}

func TestBatchSystemPromptEmbedsCharacterBands(t *testing.T) {
	got := BatchSystemPrompt()

	for _, tier := range models.AllTiers() {
		limits, ok := rules.LimitsFor(tier)
		if !ok {
			t.Fatalf("no limits for tier %s", tier)
		}
		if !strings.Contains(got, limits.CharRange()) {
			t.Errorf("system prompt missing %s band %s", tier, limits.CharRange())
		}
	}
	if !strings.Contains(got, `"short", "medium", "long"`) {
		t.Error("system prompt missing JSON key contract")
	}
}

func TestBatchSystemPromptSamplesBannedTerms(t *testing.T) {
	got := BatchSystemPrompt()

	if !strings.Contains(got, rules.BannedTerms[0]) {
		t.Errorf("system prompt missing banned term sample %q", rules.BannedTerms[0])
	}
}

func TestTierPromptIncludesGuidanceAndDetails(t *testing.T) {
	tests := []struct {
		tier models.Tier
		want []string
	}{
		{models.TierShort, []string{"SHORT", "35-60", "rate_limiter", "token bucket, per-client quotas"}},
		{models.TierMedium, []string{"MEDIUM", "100-150", "complete sentences"}},
		{models.TierLong, []string{"LONG", "350-500", "3 paragraphs"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			got := TierPrompt(testRequest(), tt.tier)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("TierPrompt(%s) missing %q", tt.tier, want)
				}
			}
		})
	}
}

func TestTierPromptOmitsEmptyCategory(t *testing.T) {
	req := testRequest()
	req.Category = ""

	if strings.Contains(TierPrompt(req, models.TierShort), "Category:") {
		t.Error("category line rendered for empty category")
	}
}

func TestBatchPromptListsAllTiers(t *testing.T) {
	got := BatchPrompt(testRequest())

	for _, want := range []string{
		"rate_limiter",
		"SHORT: 35-60 chars",
		"MEDIUM: 100-150 chars",
		"LONG: 350-500 chars",
		"Return ONLY valid JSON with short, medium, long keys.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("BatchPrompt missing %q", want)
		}
	}
}

func TestBatchPromptOptionalLines(t *testing.T) {
	req := testRequest()
	req.Parent = "http_loadbalancer"
	req.Context = "applies per virtual host"

	got := BatchPrompt(req)
	if !strings.Contains(got, "Parent object: http_loadbalancer") {
		t.Error("missing parent line")
	}
	if !strings.Contains(got, "Context: applies per virtual host") {
		t.Error("missing context line")
	}

	req.Parent = ""
	req.Context = ""
	got = BatchPrompt(req)
	if strings.Contains(got, "Parent object:") || strings.Contains(got, "Context:") {
		t.Error("optional lines rendered when empty")
	}
}
