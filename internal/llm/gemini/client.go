// Package gemini implements llm.Client on the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/llm"
)

// Client invokes a Gemini model.
type Client struct {
	api    *genai.Client
	model  string
	logger *zerolog.Logger
}

// NewClient connects to the Gemini API with an API key.
func NewClient(ctx context.Context, apiKey, model string, logger *zerolog.Logger) (*Client, error) {
	api, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{
		api:    api,
		model:  model,
		logger: logger,
	}, nil
}

// Invoke sends one generate-content call.
func (c *Client) Invoke(ctx context.Context, req llm.Request) (*llm.Response, error) {
	config := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.Temperature > 0 {
		config.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.TopP > 0 {
		config.TopP = genai.Ptr(float32(req.TopP))
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	start := time.Now()
	resp, err := c.api.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	content := resp.Text()
	if content == "" {
		return nil, fmt.Errorf("model returned empty response")
	}

	out := &llm.Response{Content: content}
	if len(resp.Candidates) > 0 {
		out.StopReason = string(resp.Candidates[0].FinishReason)
	}
	if resp.UsageMetadata != nil {
		out.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	c.logger.Debug().
		Str("model", c.model).
		Dur("duration", time.Since(start)).
		Str("stop_reason", out.StopReason).
		Int("total_tokens", out.TokensUsed).
		Msg("content generation finished")

	return out, nil
}

// InvokeWithRetry retries transient API failures with exponential backoff.
func (c *Client) InvokeWithRetry(ctx context.Context, req llm.Request, maxRetries int) (*llm.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := llm.Backoff(attempt)
			c.logger.Warn().
				Int("attempt", attempt).
				Dur("delay", delay).
				Err(lastErr).
				Msg("retrying content generation")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		resp, err := c.Invoke(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !llm.IsRetryable(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("content generation failed after %d retries: %w", maxRetries, lastErr)
}
