// Package llm defines the provider-neutral completion client used by the
// description writer. Implementations live in the openai, bedrock and gemini
// subpackages.
package llm

import "context"

// Client is implemented by each model provider.
type Client interface {
	// Invoke sends a single completion request.
	Invoke(ctx context.Context, req Request) (*Response, error)

	// InvokeWithRetry retries transient provider failures with backoff.
	InvokeWithRetry(ctx context.Context, req Request, maxRetries int) (*Response, error)
}
