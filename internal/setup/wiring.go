// Package setup loads environment configuration and wires the generation
// pipeline together for the command-line entrypoints.
package setup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/config"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/generator"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/llm"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/llm/bedrock"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/llm/gemini"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/llm/openai"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/postprocess"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/rules"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/validator"
)

type Config struct {
	Provider string

	// OpenAI-compatible endpoint (Ollama, vLLM, api.openai.com)
	Model   string
	BaseURL string
	APIKey  string

	// Bedrock
	AWSRegion      string
	BedrockModelID string

	// Gemini
	GeminiKey   string
	GeminiModel string

	Temperature float64
	TopP        float64
	MaxAttempts int
	LLMRetries  int
	Strict      bool

	RedisAddr   string
	CacheTTL    int
	PostgresDSN string
}

type Dependencies struct {
	Writer          *generator.Writer
	Retrier         *generator.Retrier
	Validator       *validator.Validator
	StrictValidator *validator.Validator
	Processor       *postprocess.Processor
	Logger          *zerolog.Logger
}

func LoadConfig() *Config {
	return &Config{
		Provider:       getEnv("LLM_PROVIDER", "openai"),
		Model:          getEnv("LLM_MODEL", "llama3.2"),
		BaseURL:        getEnv("LLM_BASE_URL", "http://localhost:11434/v1"),
		APIKey:         getEnv("LLM_API_KEY", "ollama"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		BedrockModelID: getEnv("CLAUDE_MODEL_ID", "anthropic.claude-3-haiku-20240307-v1:0"),
		GeminiKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		Temperature:    getEnvFloat("LLM_TEMPERATURE", 0.3),
		TopP:           getEnvFloat("LLM_TOP_P", 0.9),
		MaxAttempts:    getEnvInt("MAX_ATTEMPTS", 3),
		LLMRetries:     getEnvInt("LLM_MAX_RETRIES", 2),
		Strict:         getEnvBool("STRICT_VALIDATION", false),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		CacheTTL:       getEnvInt("CACHE_TTL_SECONDS", 3600),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
	}
}

// ActiveModel returns the model identifier the selected provider will use.
func (c *Config) ActiveModel() string {
	switch c.Provider {
	case "bedrock":
		return c.BedrockModelID
	case "gemini":
		return c.GeminiModel
	default:
		return c.Model
	}
}

func Wire(ctx context.Context, cfg *Config, logger *zerolog.Logger) (*Dependencies, error) {
	if err := rules.ValidateTables(); err != nil {
		return nil, fmt.Errorf("rule tables invalid: %w", err)
	}

	llmClient, err := createLLMClient(ctx, cfg.Provider, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	// Optional vocabulary overrides; a missing file means no overrides.
	var extraTerms []string
	var extraPairs []rules.SynonymPair
	rulesCfg, err := config.LoadRulesConfig()
	switch {
	case err == nil:
		extraTerms = rulesCfg.BannedTerms
		extraPairs = rulesCfg.Synonyms
		logger.Info().
			Int("banned_terms", len(extraTerms)).
			Int("synonyms", len(extraPairs)).
			Msg("loaded rules overrides")
	case errors.Is(err, os.ErrNotExist):
		logger.Debug().Msg("no rules override file")
	default:
		return nil, fmt.Errorf("failed to load rules config: %w", err)
	}

	processor := postprocess.NewProcessor(extraPairs...)
	normal := validator.New(false, extraTerms...)
	strict := validator.New(true, extraTerms...)

	writer := generator.NewWriter(llmClient, generator.WriterConfig{
		Model:       cfg.ActiveModel(),
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
		MaxRetries:  cfg.LLMRetries,
	}, logger)

	retrier := generator.NewRetrier(writer, processor, normal, strict, cfg.MaxAttempts, logger)

	return &Dependencies{
		Writer:          writer,
		Retrier:         retrier,
		Validator:       normal,
		StrictValidator: strict,
		Processor:       processor,
		Logger:          logger,
	}, nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		value = defaultValue
	}

	return value
}

func getEnvFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		value = defaultValue
	}

	return value
}

func createLLMClient(ctx context.Context, provider string, cfg *Config, logger *zerolog.Logger) (llm.Client, error) {
	switch provider {
	case "bedrock":
		return bedrock.NewClient(ctx, cfg.AWSRegion, cfg.BedrockModelID, logger)
	case "gemini":
		return gemini.NewClient(ctx, cfg.GeminiKey, cfg.GeminiModel, logger)
	case "openai":
		return openai.NewClient(openai.Config{BaseURL: cfg.BaseURL, APIKey: cfg.APIKey, Model: cfg.Model}, logger), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", provider)
	}
}
