package models

import (
	"strings"
	"time"
)

type Tier string

const (
	TierShort  Tier = "short"
	TierMedium Tier = "medium"
	TierLong   Tier = "long"
)

// AllTiers returns the fixed tier set in ascending length order.
func AllTiers() []Tier {
	return []Tier{TierShort, TierMedium, TierLong}
}

func (t Tier) Valid() bool {
	switch t {
	case TierShort, TierMedium, TierLong:
		return true
	}
	return false
}

// RawCandidate is one attempt's untouched model output: the tier texts as
// extracted from the response, plus opaque token accounting.
type RawCandidate struct {
	Descriptions map[Tier]string `json:"descriptions"`
	TokensUsed   int             `json:"tokens_used"`
}

// ValidationVerdict is the outcome of validating a single description.
type ValidationVerdict struct {
	Tier      Tier     `json:"tier"`
	Content   string   `json:"content"`
	IsValid   bool     `json:"is_valid"`
	CharCount int      `json:"char_count"`
	WordCount int      `json:"word_count"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

// ErrorSummary joins hard errors for display, or "Valid" when there are none.
func (v ValidationVerdict) ErrorSummary() string {
	if len(v.Errors) == 0 {
		return "Valid"
	}
	return strings.Join(v.Errors, "; ")
}

// BatchVerdict maps each supplied tier to its verdict. Tiers absent from the
// validated input are absent here too.
type BatchVerdict struct {
	Results map[Tier]ValidationVerdict `json:"results"`
}

func (b BatchVerdict) AllValid() bool {
	for _, r := range b.Results {
		if !r.IsValid {
			return false
		}
	}
	return true
}

func (b BatchVerdict) ValidCount() int {
	n := 0
	for _, r := range b.Results {
		if r.IsValid {
			n++
		}
	}
	return n
}

func (b BatchVerdict) TotalCount() int {
	return len(b.Results)
}

// RetryOutcome is the result of a best-of-N generation run. Descriptions is
// nil when no attempt produced a parseable candidate.
type RetryOutcome struct {
	Descriptions map[Tier]string `json:"descriptions,omitempty"`
	Verdicts     BatchVerdict    `json:"verdicts"`
	ValidCount   int             `json:"valid_count"`
	Attempts     int             `json:"attempts"`
	EarlyExit    bool            `json:"early_exit"`
}

// DescriptionResult is a single-tier generation outcome (no retry loop).
type DescriptionResult struct {
	Tier         Tier   `json:"tier"`
	Content      string `json:"content"`
	CharCount    int    `json:"char_count"`
	WithinLimits bool   `json:"within_limits"`
	TargetRange  string `json:"target_range"`
	TokensUsed   int    `json:"tokens_used"`
}

// GenerationOutput reports all tiers generated for one request.
type GenerationOutput struct {
	Name         string                     `json:"name"`
	Descriptions map[Tier]DescriptionResult `json:"descriptions"`
	Model        string                     `json:"model"`
	GeneratedAt  time.Time                  `json:"generated_at"`
	AllValid     bool                       `json:"all_valid"`
}

// Finalize recomputes AllValid from the per-tier results.
func (g *GenerationOutput) Finalize() {
	g.AllValid = len(g.Descriptions) > 0
	for _, d := range g.Descriptions {
		if !d.WithinLimits {
			g.AllValid = false
			return
		}
	}
}
