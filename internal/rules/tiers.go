// Package rules holds the process-wide rule tables the validator, the
// post-processor, and the prompt builder all share. Treat every exported
// table as read-only; components that need to extend a table take a private
// copy at construction time.
package rules

import (
	"fmt"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
)

// TierLimits constrains one tier: character band, generation token cap, and
// the wording guidance given to the model.
type TierLimits struct {
	MinChars   int
	MaxChars   int
	MaxTokens  int
	WordBudget string
	Structure  string
}

// CharRange renders the band as "min-max" for prompts and reports.
func (l TierLimits) CharRange() string {
	return fmt.Sprintf("%d-%d", l.MinChars, l.MaxChars)
}

// Contains reports whether n falls inside the band, boundaries included.
func (l TierLimits) Contains(n int) bool {
	return n >= l.MinChars && n <= l.MaxChars
}

var tierLimits = map[models.Tier]TierLimits{
	models.TierShort: {
		MinChars:   35,
		MaxChars:   60,
		MaxTokens:  25,
		WordBudget: "5-10 words",
		Structure:  "Single concise noun phrase",
	},
	models.TierMedium: {
		MinChars:   100,
		MaxChars:   150,
		MaxTokens:  60,
		WordBudget: "15-25 words",
		Structure:  "1-2 complete sentences",
	},
	models.TierLong: {
		MinChars:   350,
		MaxChars:   500,
		MaxTokens:  200,
		WordBudget: "55-80 words",
		Structure:  "2-3 focused paragraphs",
	},
}

// LimitsFor returns the limits for a tier. ok is false for unknown tiers.
func LimitsFor(t models.Tier) (TierLimits, bool) {
	l, ok := tierLimits[t]
	return l, ok
}

// ValidateTables checks the static tables at startup: every tier carries a
// band, and the bands ascend without overlapping.
func ValidateTables() error {
	return validateBands(tierLimits)
}

func validateBands(limits map[models.Tier]TierLimits) error {
	tiers := models.AllTiers()
	var prev TierLimits
	for i, tier := range tiers {
		l, ok := limits[tier]
		if !ok {
			return fmt.Errorf("tier %s has no limits", tier)
		}
		if l.MinChars <= 0 || l.MinChars >= l.MaxChars {
			return fmt.Errorf("tier %s: invalid band %d-%d", tier, l.MinChars, l.MaxChars)
		}
		if i > 0 && l.MinChars <= prev.MaxChars {
			return fmt.Errorf("tier %s band %d-%d overlaps %s band ending at %d",
				tier, l.MinChars, l.MaxChars, tiers[i-1], prev.MaxChars)
		}
		prev = l
	}
	return nil
}
