package generator

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
)

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// extractJSON slices the outermost JSON object out of raw model text. Models
// wrap payloads in markdown fences or surrounding prose; both are tolerated.
func extractJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		text = m[1]
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("no JSON object in model output")
	}
	return text[start : end+1], nil
}

// parseCandidate decodes raw model text into a tier-keyed candidate. Unknown
// keys and non-string values are dropped; a tier value under three words is
// too degenerate to score and is dropped too. At least one tier must survive.
func parseCandidate(raw string, tokensUsed int) (*models.RawCandidate, error) {
	payload, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}

	descriptions := make(map[models.Tier]string, len(models.AllTiers()))
	for key, value := range decoded {
		tier := models.Tier(strings.ToLower(strings.TrimSpace(key)))
		if !tier.Valid() {
			continue
		}
		text, ok := value.(string)
		if !ok {
			continue
		}
		text = strings.TrimSpace(text)
		if len(strings.Fields(text)) < 3 {
			continue
		}
		descriptions[tier] = text
	}
	if len(descriptions) == 0 {
		return nil, fmt.Errorf("model output carried no usable tier values")
	}

	return &models.RawCandidate{Descriptions: descriptions, TokensUsed: tokensUsed}, nil
}
