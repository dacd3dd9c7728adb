// Package prompt builds the system and user prompts for description
// generation. Length bands are pulled from the shared rules tables so the
// model is asked for exactly what the validator will accept.
package prompt

import (
	"fmt"
	"strings"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/rules"
)

const writerPersona = `You are a technical documentation writer specializing in concise, accurate product descriptions.

RULES:
- Write factual, feature-focused content
- No marketing language, superlatives, or hyperbole
- No exclamation marks or emojis
- No markdown formatting
- Follow length constraints precisely
- Count characters mentally before responding`

// TierSystemPrompt is the persona used for single-tier generation.
func TierSystemPrompt() string {
	return writerPersona
}

// BatchSystemPrompt is the persona for all-tiers JSON generation. It embeds a
// sample of the banned vocabulary and the exact character bands.
func BatchSystemPrompt() string {
	sample := rules.BannedTerms
	if len(sample) > 20 {
		sample = sample[:20]
	}

	var b strings.Builder
	b.WriteString(`You are a technical documentation writer for enterprise software.

STRICT RULES:
1. Write factual, feature-focused content only
2. Start every description with a NOUN, never a verb
3. Use active voice, present tense
4. No marketing language, superlatives, or hyperbole
5. No exclamation marks, emojis, or markdown
6. No vendor names or product branding
7. No self-referential language ("this field", "this setting")

BANNED TERMS (partial list):
`)
	b.WriteString(strings.Join(sample, ", "))
	b.WriteString(`...

OUTPUT FORMAT:
Respond ONLY with valid JSON containing exactly these keys: "short", "medium", "long".
All values are plain strings. Do not include any text before or after the JSON.

CHARACTER LIMITS (strict):
`)
	for _, tier := range models.AllTiers() {
		limits, _ := rules.LimitsFor(tier)
		fmt.Fprintf(&b, "- %s: %s characters\n", tier, limits.CharRange())
	}
	b.WriteString("\nCount characters carefully. Do not exceed limits.")
	return b.String()
}

// tierGuidance returns the length-calibration block for one tier. The
// examples anchor the model to the target length.
func tierGuidance(tier models.Tier, limits rules.TierLimits) string {
	switch tier {
	case models.TierShort:
		return fmt.Sprintf(`LENGTH CALIBRATION for SHORT description:
- Target: %d-%d characters (approximately %s)
- Structure: %s
- Start with noun, not verb (e.g., "Configuration for..." not "Configure...")
- Example (45 chars): "High-performance wireless mouse with 4000 DPI"
- Example (52 chars): "Load balancing service for web traffic distribution"
- Omit articles (a, an, the) and filler words`,
			limits.MinChars, limits.MaxChars, limits.WordBudget, limits.Structure)
	case models.TierMedium:
		return fmt.Sprintf(`LENGTH CALIBRATION for MEDIUM description:
- Target: %d-%d characters (approximately %s)
- Structure: %s
- Sentence 1: What it is and primary function
- Sentence 2: Key capability or use case
- Example (128 chars): "Wireless mouse with ergonomic design and Bluetooth 5.0. Features 4000 DPI optical sensor for precision control during extended use."
- Start with noun phrase, use active voice`,
			limits.MinChars, limits.MaxChars, limits.WordBudget, limits.Structure)
	default:
		return fmt.Sprintf(`LENGTH CALIBRATION for LONG description:
- Target: %d-%d characters (approximately %s)
- Structure: %s
- CRITICAL: You MUST write at least %d characters. Short responses will be rejected.

REQUIRED CONTENT STRUCTURE (3 paragraphs):
1. Opening paragraph (~120 chars): Core product description and primary purpose
2. Middle paragraph (~150 chars): Technical specifications and key features
3. Closing paragraph (~100 chars): Use cases and target audience

Write a complete, detailed description. Too short = failure.`,
			limits.MinChars, limits.MaxChars, limits.WordBudget, limits.Structure, limits.MinChars)
	}
}

// TierPrompt builds the single-tier user prompt.
func TierPrompt(req models.GenerationRequest, tier models.Tier) string {
	limits, _ := rules.LimitsFor(tier)

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a %s product description.\n\n", strings.ToUpper(string(tier)))
	b.WriteString(tierGuidance(tier, limits))
	b.WriteString("\n\nPRODUCT DETAILS:\n")
	fmt.Fprintf(&b, "- Name: %s\n", req.Name)
	fmt.Fprintf(&b, "- Features: %s\n", req.FeatureList())
	if req.Category != "" {
		fmt.Fprintf(&b, "- Category: %s\n", req.Category)
	}
	fmt.Fprintf(&b, `
OUTPUT REQUIREMENTS:
- Return ONLY the description text
- No quotes, labels, or explanations
- No markdown or special formatting
- Must be %d-%d characters exactly
- Verify character count mentally before responding`,
		limits.MinChars, limits.MaxChars)
	return b.String()
}

// BatchPrompt builds the all-tiers user prompt expecting a JSON reply.
func BatchPrompt(req models.GenerationRequest) string {
	parts := []string{
		fmt.Sprintf("Generate descriptions for: %s", req.Name),
		fmt.Sprintf("Features: %s", req.FeatureList()),
	}
	if req.Category != "" {
		parts = append(parts, fmt.Sprintf("Category: %s", req.Category))
	}
	if req.Parent != "" {
		parts = append(parts, fmt.Sprintf("Parent object: %s", req.Parent))
	}
	if req.Context != "" {
		parts = append(parts, fmt.Sprintf("Context: %s", req.Context))
	}

	parts = append(parts, "", "REQUIREMENTS:")
	for _, tier := range models.AllTiers() {
		limits, _ := rules.LimitsFor(tier)
		parts = append(parts, fmt.Sprintf("- %s: %s chars, %s",
			strings.ToUpper(string(tier)), limits.CharRange(), strings.ToLower(limits.Structure)))
	}
	parts = append(parts,
		"",
		"- Start with noun (e.g., 'Configuration for...' not 'Configure...')",
		"- No marketing language or superlatives",
		"- No vendor names or product branding",
		"- Active voice, present tense",
		"",
		"Return ONLY valid JSON with short, medium, long keys.",
	)
	return strings.Join(parts, "\n")
}
