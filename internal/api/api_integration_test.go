package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/emicklei/go-restful/v3"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/api"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/setup"
)

var runIntegration = flag.Bool("integration", false, "run integration tests against a live LLM")

// setupIntegrationAPI wires the real pipeline against whichever provider the
// environment selects. Tests calling it are skipped unless -integration is set.
func setupIntegrationAPI(t *testing.T) *restful.Container {
	t.Helper()

	if !*runIntegration {
		t.Skip("Skipping integration test. Use -integration flag to run.")
	}

	_ = godotenv.Load("../../.env")

	cfg := setup.LoadConfig()
	switch cfg.Provider {
	case "bedrock":
		if os.Getenv("AWS_ACCESS_KEY_ID") == "" && os.Getenv("AWS_PROFILE") == "" {
			t.Skip("Skipping: no AWS credentials configured")
		}
	case "gemini":
		if cfg.GeminiKey == "" {
			t.Skip("Skipping: GEMINI_API_KEY not set")
		}
	}

	logger := zerolog.Nop()
	deps, err := setup.Wire(context.Background(), cfg, &logger)
	if err != nil {
		t.Fatalf("Failed to wire dependencies: %v", err)
	}

	handler := api.NewHandler(deps.Retrier, deps.Validator, deps.StrictValidator, nil, nil, &logger)
	container := restful.NewContainer()
	api.RegisterRoutes(container, handler)
	return container
}

func TestIntegration_GenerateDescriptions(t *testing.T) {
	container := setupIntegrationAPI(t)

	payload, _ := json.Marshal(models.GenerationRequest{
		Name:     "rate_limiter",
		Features: []string{"token bucket algorithm", "per-client quotas", "burst smoothing"},
		Category: "traffic management",
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/descriptions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	container.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d. Body: %s", recorder.Code, recorder.Body.String())
	}

	var response api.DescriptionsResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if response.Attempts < 1 {
		t.Errorf("Attempts = %d, want >= 1", response.Attempts)
	}
	if len(response.Descriptions) == 0 {
		t.Error("Expected at least one description tier from a live model")
	}
	t.Logf("valid=%d attempts=%d earlyExit=%v", response.ValidCount, response.Attempts, response.EarlyExit)
	for tier, text := range response.Descriptions {
		t.Logf("%s (%d chars): %s", tier, len([]rune(text)), text)
	}
}
