// Package mcpadapter exposes the generation pipeline as MCP tools.
package mcpadapter

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/generator"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/validator"
)

// GenerateInput is the MCP tool input schema for retried generation.
type GenerateInput struct {
	Name     string   `json:"name" jsonschema:"subject identifier to describe, e.g. a product or field name"`
	Features []string `json:"features" jsonschema:"feature list driving the description content"`
	Category string   `json:"category,omitempty" jsonschema:"optional product category"`
	Context  string   `json:"context,omitempty" jsonschema:"optional free-form context"`
	Parent   string   `json:"parent,omitempty" jsonschema:"optional parent object name"`
	Strict   bool     `json:"strict,omitempty" jsonschema:"promote style warnings to hard errors"`
}

// ValidateInput is the MCP tool input schema for single-description validation.
type ValidateInput struct {
	Name    string `json:"name" jsonschema:"subject identifier the text describes"`
	Tier    string `json:"tier" jsonschema:"length tier: short, medium, or long"`
	Content string `json:"content" jsonschema:"description text to validate"`
	Strict  bool   `json:"strict,omitempty" jsonschema:"promote style warnings to hard errors"`
}

// NewGenerateHandler returns a tool handler bound to the retry pipeline.
// Pass the returned function to mcp.AddTool.
func NewGenerateHandler(retrier *generator.Retrier) func(context.Context, *mcp.CallToolRequest, GenerateInput) (*mcp.CallToolResult, models.RetryOutcome, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GenerateInput) (*mcp.CallToolResult, models.RetryOutcome, error) {
		return GenerateDescriptions(ctx, retrier, req, input)
	}
}

// GenerateDescriptions runs the full retry pipeline for one request.
func GenerateDescriptions(
	ctx context.Context,
	retrier *generator.Retrier,
	req *mcp.CallToolRequest,
	input GenerateInput,
) (*mcp.CallToolResult, models.RetryOutcome, error) {
	request := models.GenerationRequest{
		Name:     input.Name,
		Features: input.Features,
		Category: input.Category,
		Context:  input.Context,
		Parent:   input.Parent,
	}
	if err := request.Normalize(); err != nil {
		return nil, models.RetryOutcome{}, err
	}

	outcome, err := retrier.Run(ctx, request, input.Strict)
	if err != nil {
		return nil, outcome, fmt.Errorf("generation failed after %d attempts: %w", outcome.Attempts, err)
	}
	return nil, outcome, nil
}

// NewValidateHandler returns a tool handler over the two validator modes.
// Pass the returned function to mcp.AddTool.
func NewValidateHandler(normal *validator.Validator, strict *validator.Validator) func(context.Context, *mcp.CallToolRequest, ValidateInput) (*mcp.CallToolResult, models.ValidationVerdict, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ValidateInput) (*mcp.CallToolResult, models.ValidationVerdict, error) {
		return ValidateDescription(ctx, normal, strict, req, input)
	}
}

// ValidateDescription checks one description against the rule set.
func ValidateDescription(
	_ context.Context,
	normal *validator.Validator,
	strict *validator.Validator,
	_ *mcp.CallToolRequest,
	input ValidateInput,
) (*mcp.CallToolResult, models.ValidationVerdict, error) {
	tier := models.Tier(strings.ToLower(strings.TrimSpace(input.Tier)))
	if !tier.Valid() {
		return nil, models.ValidationVerdict{}, fmt.Errorf("unknown tier %q (want short, medium, or long)", input.Tier)
	}

	v := normal
	if input.Strict {
		v = strict
	}
	return nil, v.Validate(input.Content, tier, input.Name), nil
}
