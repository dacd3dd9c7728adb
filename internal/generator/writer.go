// Package generator turns generation requests into validated description
// sets: the Writer issues single LLM calls, the Retrier wraps them in a
// best-of-N loop.
package generator

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/llm"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/prompt"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/rules"
)

// batchMaxTokens bounds the all-tiers completion; roughly double the long
// tier's token budget to leave room for JSON syntax.
const batchMaxTokens = 500

// WriterConfig carries sampling settings and the model name reported in
// generation output. MaxRetries > 0 routes each call through the provider's
// transport retry; zero means one call per attempt.
type WriterConfig struct {
	Model       string
	Temperature float64
	TopP        float64
	MaxRetries  int
}

// Writer produces raw candidates from single LLM calls. It implements
// CandidateSource for the batch path and exposes a per-tier path without
// retries.
type Writer struct {
	client llm.Client
	cfg    WriterConfig
	logger *zerolog.Logger
}

func NewWriter(client llm.Client, cfg WriterConfig, logger *zerolog.Logger) *Writer {
	return &Writer{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

func (w *Writer) invoke(ctx context.Context, req llm.Request) (*llm.Response, error) {
	if w.cfg.MaxRetries > 0 {
		return w.client.InvokeWithRetry(ctx, req, w.cfg.MaxRetries)
	}
	return w.client.Invoke(ctx, req)
}

// GenerateCandidate asks the model for all tiers in one JSON reply and
// extracts the tier texts.
func (w *Writer) GenerateCandidate(ctx context.Context, req models.GenerationRequest) (*models.RawCandidate, error) {
	resp, err := w.invoke(ctx, llm.Request{
		System:      prompt.BatchSystemPrompt(),
		Prompt:      prompt.BatchPrompt(req),
		MaxTokens:   batchMaxTokens,
		Temperature: w.cfg.Temperature,
		TopP:        w.cfg.TopP,
	})
	if err != nil {
		return nil, fmt.Errorf("generate candidate: %w", err)
	}

	candidate, err := parseCandidate(resp.Content, resp.TokensUsed)
	if err != nil {
		w.logger.Debug().
			Err(err).
			Str("name", req.Name).
			Str("stop_reason", resp.StopReason).
			Msg("candidate not parseable")
		return nil, err
	}
	return candidate, nil
}

// GenerateTier produces one tier's description with a single call, reporting
// the character count against the tier's band.
func (w *Writer) GenerateTier(ctx context.Context, req models.GenerationRequest, tier models.Tier) (*models.DescriptionResult, error) {
	limits, ok := rules.LimitsFor(tier)
	if !ok {
		return nil, fmt.Errorf("unknown tier %q", tier)
	}

	resp, err := w.invoke(ctx, llm.Request{
		System:      prompt.TierSystemPrompt(),
		Prompt:      prompt.TierPrompt(req, tier),
		MaxTokens:   limits.MaxTokens,
		Temperature: w.cfg.Temperature,
		TopP:        w.cfg.TopP,
	})
	if err != nil {
		return nil, fmt.Errorf("generate %s description: %w", tier, err)
	}

	content := strings.TrimSpace(resp.Content)
	chars := utf8.RuneCountInString(content)

	return &models.DescriptionResult{
		Tier:         tier,
		Content:      content,
		CharCount:    chars,
		WithinLimits: limits.Contains(chars),
		TargetRange:  limits.CharRange(),
		TokensUsed:   resp.TokensUsed,
	}, nil
}

// Generate produces every tier with one call each, no retry loop.
func (w *Writer) Generate(ctx context.Context, req models.GenerationRequest) (*models.GenerationOutput, error) {
	out := &models.GenerationOutput{
		Name:         req.Name,
		Descriptions: make(map[models.Tier]models.DescriptionResult, len(models.AllTiers())),
		Model:        w.cfg.Model,
		GeneratedAt:  time.Now().UTC(),
	}

	for _, tier := range models.AllTiers() {
		result, err := w.GenerateTier(ctx, req, tier)
		if err != nil {
			return nil, err
		}
		out.Descriptions[tier] = *result
	}

	out.Finalize()
	return out, nil
}
