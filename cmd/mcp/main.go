package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/mcpadapter"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/setup"
	setuplogger "github.com/robinmordasiewicz/ollama-description-writer/internal/setup/logger"
)

func main() {
	// Setup logging. Stdout carries the MCP protocol; logs go to stderr,
	// leveled so a noisy client can run with LOG_LEVEL=error.
	log.Logger = setuplogger.Console(os.Getenv("LOG_LEVEL"))
	logger := log.Logger

	// Load env
	_ = godotenv.Load()

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load Config
	cfg := setup.LoadConfig()

	// Wire dependencies
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		logger.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	// Create MCP Server
	server := createMCPServer(deps)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes (e.g. echo | ./bin/description-mcp)
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			logger.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		logger.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}

func createMCPServer(deps *setup.Dependencies) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "description-writer",
			Version: "1.0.0",
		}, nil,
	)

	// Add Tools
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_descriptions",
		Description: "Generate short, medium, and long descriptions for a named product or field, validated against per-tier length bands and terminology rules",
	}, mcpadapter.NewGenerateHandler(deps.Retrier))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_description",
		Description: "Validate a single description against one tier's length band and terminology rules without generating anything",
	}, mcpadapter.NewValidateHandler(deps.Validator, deps.StrictValidator))
	return server
}
