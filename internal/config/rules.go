// Package config loads optional vocabulary overrides layered on top of the
// built-in rule tables.
package config

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/rules"
)

// RulesConfig holds per-deployment additions: extra banned terms for the
// validator and extra synonym pairs for the post-processor.
type RulesConfig struct {
	BannedTerms []string            `yaml:"banned_terms"`
	Synonyms    []rules.SynonymPair `yaml:"synonyms"`
}

// LoadRulesConfig reads the override file named by RULES_CONFIG_PATH
// (default configs/rules.yaml). Callers decide whether a missing file is an
// error; os.ErrNotExist passes through unwrapped.
func LoadRulesConfig() (*RulesConfig, error) {
	path := os.Getenv("RULES_CONFIG_PATH")
	if path == "" {
		path = "configs/rules.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg RulesConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *RulesConfig) {
	terms := make([]string, 0, len(cfg.BannedTerms))
	for _, term := range cfg.BannedTerms {
		if t := strings.TrimSpace(term); t != "" {
			terms = append(terms, t)
		}
	}
	cfg.BannedTerms = terms
}

// Validate rejects synonym pairs that could not terminate: an empty pattern,
// or a replacement that still contains its own pattern.
func (c *RulesConfig) Validate() error {
	for i, pair := range c.Synonyms {
		if strings.TrimSpace(pair.Pattern) == "" {
			return fmt.Errorf("synonym %d: empty pattern", i)
		}
		if strings.Contains(strings.ToLower(pair.Replacement), strings.ToLower(pair.Pattern)) {
			return fmt.Errorf("synonym %d: replacement %q contains its own pattern %q", i, pair.Replacement, pair.Pattern)
		}
	}
	return nil
}
