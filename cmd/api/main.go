package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	restful "github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/api"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/api/middleware"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/cache"
	redisconn "github.com/robinmordasiewicz/ollama-description-writer/internal/redis"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/setup"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/store"
)

func enrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Description Writer API",
			Description: "Length-constrained description generation with validation",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "descriptions", Description: "Description generation"}},
		{TagProps: spec.TagProps{Name: "validate", Description: "Validation without generation"}},
		{TagProps: spec.TagProps{Name: "outcomes", Description: "Persisted generation history"}},
		{TagProps: spec.TagProps{Name: "tiers", Description: "Tier length contracts"}},
	}
}

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	logger := log.Logger

	// Load env
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	ctx := context.Background()

	cfg := setup.LoadConfig()
	deps, err := setup.Wire(ctx, cfg, &logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	log.Info().
		Str("provider", cfg.Provider).
		Str("model", cfg.ActiveModel()).
		Msg("Generation pipeline ready")

	// The cache is a collaborator, not a dependency: an unreachable Redis
	// downgrades the server to uncached generation.
	var outcomes api.OutcomeCache
	redisClient, err := redisconn.Connect(ctx, cfg.RedisAddr, os.Getenv("REDIS_PASSWORD"), 3, &logger)
	if err != nil {
		log.Warn().Err(err).Msg("Outcome cache disabled")
	} else {
		outcomes = cache.NewOutcomeCache(redisClient, time.Duration(cfg.CacheTTL)*time.Second, &logger)
	}

	// The outcome store degrades the same way: without Postgres the
	// history endpoint reports unavailable.
	var history api.OutcomeLister
	dsn := cfg.PostgresDSN
	if dsn == "" && os.Getenv("POSTGRES_HOST") != "" {
		dsn = store.ConfigFromEnv().ConnectionString()
	}
	if dsn != "" {
		st, err := store.Connect(ctx, dsn, 3, &logger)
		if err != nil {
			log.Warn().Err(err).Msg("Outcome history disabled")
		} else {
			defer st.Close()
			if err := st.EnsureSchema(ctx); err != nil {
				log.Warn().Err(err).Msg("Outcome history disabled")
			} else {
				history = st
			}
		}
	}

	// API
	handler := api.NewHandler(deps.Retrier, deps.Validator, deps.StrictValidator, outcomes, history, &logger)
	container := restful.NewContainer()
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)
	api.RegisterRoutes(container, handler)

	config := restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       "/api/v1/openapi.json",
		PostBuildSwaggerObjectHandler: enrichSwaggerObject,
	}
	container.Add(restfulspec.NewOpenAPIService(config))

	// CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	})

	// Server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("address", addr).Msg("Starting Description Writer API")

	server := http.Server{
		Addr:    addr,
		Handler: corsHandler.Handler(container),
		// WriteTimeout must cover the full retry budget, not a single
		// model call.
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
