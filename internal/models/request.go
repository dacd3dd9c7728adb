package models

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"strings"
)

var (
	ErrEmptyName  = errors.New("request name is required")
	ErrNoFeatures = errors.New("at least one non-empty feature is required")
)

// GenerationRequest identifies the subject to describe: a product or an API
// field, with its feature/context strings and optional annotations.
type GenerationRequest struct {
	Name     string   `json:"name"`
	Features []string `json:"features"`
	Category string   `json:"category,omitempty"`
	Context  string   `json:"context,omitempty"`
	Parent   string   `json:"parent,omitempty"`
}

// Normalize trims the name and features, drops empty features, and rejects
// requests that are unusable after trimming. Call it at every intake boundary
// before the request reaches the generation pipeline.
func (r *GenerationRequest) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return ErrEmptyName
	}

	kept := make([]string, 0, len(r.Features))
	for _, f := range r.Features {
		f = strings.TrimSpace(f)
		if f != "" {
			kept = append(kept, f)
		}
	}
	if len(kept) == 0 {
		return ErrNoFeatures
	}
	r.Features = kept

	r.Category = strings.TrimSpace(r.Category)
	r.Context = strings.TrimSpace(r.Context)
	r.Parent = strings.TrimSpace(r.Parent)
	return nil
}

// FeatureList returns the features as a comma-separated string for prompts.
func (r GenerationRequest) FeatureList() string {
	return strings.Join(r.Features, ", ")
}

// Fingerprint returns a stable cache key for the request. Unit separator
// between fields so concatenation cannot collide.
func (r GenerationRequest) Fingerprint() string {
	h := sha256.New()
	io.WriteString(h, r.Name)
	for _, f := range r.Features {
		io.WriteString(h, "\x1f")
		io.WriteString(h, f)
	}
	io.WriteString(h, "\x1e")
	io.WriteString(h, r.Category)
	io.WriteString(h, "\x1f")
	io.WriteString(h, r.Context)
	io.WriteString(h, "\x1f")
	io.WriteString(h, r.Parent)
	return hex.EncodeToString(h.Sum(nil))
}
