package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadRulesConfig_Success(t *testing.T) {
	path := writeConfig(t, `banned_terms:
  - "internal codename"
  - "  legacy platform  "
  - ""

synonyms:
  - pattern: "load balancer pool"
    replacement: "upstream member group"
  - pattern: "origin server"
    replacement: "backend host"
`)

	os.Setenv("RULES_CONFIG_PATH", path)
	defer os.Unsetenv("RULES_CONFIG_PATH")

	cfg, err := LoadRulesConfig()
	if err != nil {
		t.Fatalf("LoadRulesConfig() failed: %v", err)
	}

	if len(cfg.BannedTerms) != 2 {
		t.Fatalf("got %d banned terms, want 2 (empty dropped): %v", len(cfg.BannedTerms), cfg.BannedTerms)
	}
	if cfg.BannedTerms[1] != "legacy platform" {
		t.Errorf("term not trimmed: %q", cfg.BannedTerms[1])
	}
	if len(cfg.Synonyms) != 2 {
		t.Fatalf("got %d synonyms, want 2", len(cfg.Synonyms))
	}
	if cfg.Synonyms[0].Replacement != "upstream member group" {
		t.Errorf("replacement = %q", cfg.Synonyms[0].Replacement)
	}
}

func TestLoadRulesConfig_MissingFile(t *testing.T) {
	os.Setenv("RULES_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	defer os.Unsetenv("RULES_CONFIG_PATH")

	_, err := LoadRulesConfig()
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error = %v, want os.ErrNotExist passthrough", err)
	}
}

func TestLoadRulesConfig_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "banned_terms: [unclosed")

	os.Setenv("RULES_CONFIG_PATH", path)
	defer os.Unsetenv("RULES_CONFIG_PATH")

	if _, err := LoadRulesConfig(); err == nil {
		t.Error("LoadRulesConfig() accepted invalid YAML")
	}
}

func TestLoadRulesConfig_RejectsSelfRetriggeringSynonym(t *testing.T) {
	path := writeConfig(t, `synonyms:
  - pattern: "gateway"
    replacement: "Edge Gateway"
`)

	os.Setenv("RULES_CONFIG_PATH", path)
	defer os.Unsetenv("RULES_CONFIG_PATH")

	if _, err := LoadRulesConfig(); err == nil {
		t.Error("LoadRulesConfig() accepted a replacement containing its own pattern")
	}
}

func TestValidateEmptyPattern(t *testing.T) {
	cfg := &RulesConfig{}
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty config should validate, got %v", err)
	}
}
