// Package openai adapts any OpenAI-compatible chat completion endpoint to the
// llm.Client interface. With a base URL override this covers Ollama and vLLM
// as well as the hosted API.
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/llm"
)

// Config holds the connection settings for one endpoint.
type Config struct {
	// BaseURL overrides the hosted API, e.g. http://localhost:11434/v1 for
	// Ollama. Empty means api.openai.com.
	BaseURL string
	APIKey  string
	Model   string
}

// Client talks to an OpenAI-compatible chat completion API.
type Client struct {
	api    openai.Client
	model  string
	logger *zerolog.Logger
}

// NewClient builds a client. SDK-level retries are disabled; retry policy is
// owned by InvokeWithRetry.
func NewClient(cfg Config, logger *zerolog.Logger) *Client {
	opts := []option.RequestOption{option.WithMaxRetries(0)}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		api:    openai.NewClient(opts...),
		model:  cfg.Model,
		logger: logger,
	}
}

// Invoke sends one chat completion request.
func (c *Client) Invoke(ctx context.Context, req llm.Request) (*llm.Response, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Messages:            messages,
		Model:               openai.ChatModel(c.model),
		MaxCompletionTokens: openai.Int(int64(req.MaxTokens)),
		Temperature:         openai.Float(req.Temperature),
	}
	if req.TopP > 0 {
		params.TopP = openai.Float(req.TopP)
	}

	start := time.Now()
	completion, err := c.api.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("chat completion returned no choices")
	}

	choice := completion.Choices[0]
	c.logger.Debug().
		Str("model", c.model).
		Dur("duration", time.Since(start)).
		Str("finish_reason", string(choice.FinishReason)).
		Int64("total_tokens", completion.Usage.TotalTokens).
		Msg("chat completion finished")

	return &llm.Response{
		Content:    choice.Message.Content,
		StopReason: string(choice.FinishReason),
		TokensUsed: int(completion.Usage.TotalTokens),
	}, nil
}

// InvokeWithRetry retries transient failures with exponential backoff.
func (c *Client) InvokeWithRetry(ctx context.Context, req llm.Request, maxRetries int) (*llm.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := llm.Backoff(attempt)
			c.logger.Warn().
				Int("attempt", attempt).
				Dur("delay", delay).
				Err(lastErr).
				Msg("retrying chat completion")
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
	return nil, fmt.Errorf("chat completion failed after %d retries: %w", maxRetries, lastErr)
}
