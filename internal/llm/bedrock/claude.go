package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/llm"
)

const anthropicVersion = "bedrock-2023-05-31"

type claudeRequest struct {
	AnthropicVersion string          `json:"anthropic_version"`
	MaxTokens        int             `json:"max_tokens"`
	System           string          `json:"system,omitempty"`
	Messages         []claudeMessage `json:"messages"`
	Temperature      float64         `json:"temperature,omitempty"`
	TopP             float64         `json:"top_p,omitempty"`
}

type claudeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type claudeResponse struct {
	Content    []claudeContent `json:"content"`
	StopReason string          `json:"stop_reason"`
	Usage      claudeUsage     `json:"usage"`
}

type claudeContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type claudeUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Invoke sends one messages-API call to the configured model.
func (c *Client) Invoke(ctx context.Context, req llm.Request) (*llm.Response, error) {
	payload, err := json.Marshal(claudeRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        req.MaxTokens,
		System:           req.System,
		Messages:         []claudeMessage{{Role: "user", Content: req.Prompt}},
		Temperature:      req.Temperature,
		TopP:             req.TopP,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal model request: %w", err)
	}

	start := time.Now()
	out, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        payload,
	})
	if err != nil {
		return nil, fmt.Errorf("invoke model %s: %w", c.modelID, err)
	}

	var decoded claudeResponse
	if err := json.Unmarshal(out.Body, &decoded); err != nil {
		return nil, fmt.Errorf("unmarshal model response: %w", err)
	}
	if len(decoded.Content) == 0 {
		return nil, fmt.Errorf("model response contained no content blocks")
	}

	var text strings.Builder
	for _, block := range decoded.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	c.logger.Debug().
		Str("model_id", c.modelID).
		Dur("duration", time.Since(start)).
		Str("stop_reason", decoded.StopReason).
		Int("input_tokens", decoded.Usage.InputTokens).
		Int("output_tokens", decoded.Usage.OutputTokens).
		Msg("model invocation finished")

	return &llm.Response{
		Content:    text.String(),
		StopReason: decoded.StopReason,
		TokensUsed: decoded.Usage.InputTokens + decoded.Usage.OutputTokens,
	}, nil
}

// InvokeWithRetry retries throttling and other transient Bedrock failures.
func (c *Client) InvokeWithRetry(ctx context.Context, req llm.Request, maxRetries int) (*llm.Response, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			delay := llm.Backoff(attempt)
			c.logger.Warn().
				Int("attempt", attempt).
				Dur("delay", delay).
				Err(lastErr).
				Msg("retrying model invocation")
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
	return nil, fmt.Errorf("model invocation failed after %d retries: %w", maxRetries, lastErr)
}
