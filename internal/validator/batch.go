package validator

import (
	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
)

// ValidateBatch validates every supplied, non-empty tier and collects the
// verdicts keyed by tier. Tiers missing from the input are missing from the
// result; nothing is defaulted to invalid.
func (v *Validator) ValidateBatch(descriptions map[models.Tier]string, subjectName string) models.BatchVerdict {
	verdict := models.BatchVerdict{Results: make(map[models.Tier]models.ValidationVerdict)}

	for _, tier := range models.AllTiers() {
		content, ok := descriptions[tier]
		if !ok || content == "" {
			continue
		}
		verdict.Results[tier] = v.Validate(content, tier, subjectName)
	}

	return verdict
}
