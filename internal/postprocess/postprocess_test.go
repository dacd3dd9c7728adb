package postprocess

import (
	"strings"
	"testing"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/rules"
)

func TestApplySynonyms(t *testing.T) {
	p := NewProcessor()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "direct replacement",
			input:    "Settings exposed through the API endpoint",
			expected: "Settings exposed through the service interface",
		},
		{
			name:     "case insensitive",
			input:    "rest api integration layer",
			expected: "web service integration layer",
		},
		{
			name:     "substring match inside longer word run",
			input:    "JSON objects returned per call",
			expected: "data structures returned per call",
		},
		{
			name:     "replaces all occurrences",
			input:    "HTTP request in, HTTP request out",
			expected: "service call in, service call out",
		},
		{
			name:     "pair order is list order",
			input:    "REST API endpoint",
			expected: "REST service interface",
		},
		{
			name:     "no match passes through",
			input:    "Gateway cluster for traffic shaping",
			expected: "Gateway cluster for traffic shaping",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.ApplySynonyms(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestApplySynonyms_Idempotent(t *testing.T) {
	p := NewProcessor()

	inputs := []string{
		"Settings exposed through the API endpoint",
		"REST API gateway returning a JSON object per HTTP request",
		"Offers seamless integration and a robust solution with a powerful feature set",
		"comprehensive suite on a scalable architecture",
	}

	for _, input := range inputs {
		once := p.ApplySynonyms(input)
		twice := p.ApplySynonyms(once)
		if once != twice {
			t.Errorf("Substitution not idempotent for %q:\n once: %q\ntwice: %q", input, once, twice)
		}
	}
}

func TestNounFirstRewrite(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "mapped verb",
			input:    "Configure the load balancer",
			expected: "Configuration for the load balancer",
		},
		{
			name:     "mapped verb manage",
			input:    "Manage DNS records for the zone",
			expected: "Management of DNS records for the zone",
		},
		{
			name:     "generic transform",
			input:    "Get status information",
			expected: "Status information configuration",
		},
		{
			name:     "generic transform lowercases remainder",
			input:    "Show TLS handshake details",
			expected: "Tls handshake details configuration",
		},
		{
			name:     "exact case required",
			input:    "configure the load balancer",
			expected: "configure the load balancer",
		},
		{
			name:     "verb must be followed by a space",
			input:    "Configuration of the load balancer",
			expected: "Configuration of the load balancer",
		},
		{
			name:     "only first match acted on",
			input:    "Delete Set values",
			expected: "Deletion of Set values",
		},
		{
			// Single pass: a stacked verb in the remainder stays in front
			// for validation to flag.
			name:     "generic fallback keeps stacked verb",
			input:    "Get Run the task",
			expected: "Run the task configuration",
		},
		{
			name:     "noun first already",
			input:    "Network routing configuration",
			expected: "Network routing configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NounFirstRewrite(tt.input); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNounFirstRewrite_Idempotent(t *testing.T) {
	for _, verb := range rules.BannedVerbStarts {
		input := verb + " retry policies for nodes"
		once := NounFirstRewrite(input)
		twice := NounFirstRewrite(once)

		if once == input {
			t.Errorf("Expected a rewrite for %q", input)
		}
		if once != twice {
			t.Errorf("Rewrite not idempotent for verb %s:\n once: %q\ntwice: %q", verb, once, twice)
		}
		for _, banned := range rules.BannedVerbStarts {
			if strings.HasPrefix(once, banned+" ") {
				t.Errorf("Rewrite of %q still starts with banned verb %q: %q", input, banned, once)
			}
		}
	}
}

func TestApply_OrderAndTrim(t *testing.T) {
	p := NewProcessor()

	// Synonyms run first: the leading verb survives substitution, then the
	// rewrite fixes it.
	got := p.Apply("Configure the API endpoint  ")
	expected := "Configuration for the service interface"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}

func TestApplyAll(t *testing.T) {
	p := NewProcessor()

	processed := p.ApplyAll(map[models.Tier]string{
		models.TierShort:  "Configure the gateway",
		models.TierMedium: "Gateway routing module for traffic",
	})

	if processed[models.TierShort] != "Configuration for the gateway" {
		t.Errorf("Short tier not rewritten: %q", processed[models.TierShort])
	}
	if processed[models.TierMedium] != "Gateway routing module for traffic" {
		t.Errorf("Medium tier should pass through: %q", processed[models.TierMedium])
	}
}

func TestNewProcessor_ExtraPairs(t *testing.T) {
	p := NewProcessor(rules.SynonymPair{Pattern: "legacy gateway", Replacement: "edge router"})

	got := p.ApplySynonyms("Legacy gateway module for the API endpoint")
	expected := "edge router module for the service interface"
	if got != expected {
		t.Errorf("Expected %q, got %q", expected, got)
	}
}
