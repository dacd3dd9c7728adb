// Package bedrock implements llm.Client on top of AWS Bedrock using the
// Anthropic messages payload.
package bedrock

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/rs/zerolog"
)

// Client invokes a Claude model through the Bedrock runtime.
type Client struct {
	runtime *bedrockruntime.Client
	modelID string
	logger  *zerolog.Logger
}

// NewClient loads the default AWS config chain for region and wraps the
// Bedrock runtime.
func NewClient(ctx context.Context, region, modelID string, logger *zerolog.Logger) (*Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Client{
		runtime: bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
		logger:  logger,
	}, nil
}
