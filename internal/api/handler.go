package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/emicklei/go-restful/v3"
	"github.com/rs/zerolog"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/api/middleware"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/generator"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/rules"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/store"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/validator"
)

// OutcomeCache stores generation outcomes keyed by request fingerprint. A nil
// cache disables caching.
type OutcomeCache interface {
	Get(ctx context.Context, key string) (*models.RetryOutcome, bool, error)
	Set(ctx context.Context, key string, outcome models.RetryOutcome) error
}

// OutcomeLister reads persisted generation runs, newest first. A nil lister
// disables the history endpoint.
type OutcomeLister interface {
	ListRecent(ctx context.Context, limit int) ([]store.StoredOutcome, error)
}

type Handler struct {
	retrier         *generator.Retrier
	validator       *validator.Validator
	strictValidator *validator.Validator
	outcomes        OutcomeCache
	history         OutcomeLister
	logger          *zerolog.Logger
}

func NewHandler(retrier *generator.Retrier, normal, strict *validator.Validator, outcomes OutcomeCache, history OutcomeLister, logger *zerolog.Logger) *Handler {
	return &Handler{
		retrier:         retrier,
		validator:       normal,
		strictValidator: strict,
		outcomes:        outcomes,
		history:         history,
		logger:          logger,
	}
}

// POST /api/v1/descriptions?strict=<bool>
// Body: models.GenerationRequest
// Returns: DescriptionsResponse
func (h *Handler) GenerateDescriptions(req *restful.Request, resp *restful.Response) {
	var genRequest models.GenerationRequest
	if err := req.ReadEntity(&genRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if err := genRequest.Normalize(); err != nil {
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}

	strict := parseStrict(req)
	ctx := req.Request.Context()
	key := outcomeKey(genRequest, strict)

	if h.outcomes != nil {
		outcome, ok, err := h.outcomes.Get(ctx, key)
		if err != nil {
			h.logger.Warn().Err(err).Msg("Outcome cache read failed")
		} else if ok {
			resp.WriteHeaderAndEntity(http.StatusOK, newDescriptionsResponse(genRequest.Name, strict, *outcome, true))
			return
		}
	}

	h.logger.Info().
		Str("name", genRequest.Name).
		Bool("strict", strict).
		Msg("Start generation")

	outcome, err := h.retrier.Run(ctx, genRequest, strict)
	if err != nil {
		if errors.Is(err, generator.ErrNoUsableResult) {
			middleware.HandleError(resp, err, http.StatusBadGateway)
			return
		}
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	h.logger.Info().
		Str("name", genRequest.Name).
		Int("attempts", outcome.Attempts).
		Int("valid_count", outcome.ValidCount).
		Bool("early_exit", outcome.EarlyExit).
		Msg("Generation complete")

	if h.outcomes != nil {
		if err := h.outcomes.Set(ctx, key, outcome); err != nil {
			h.logger.Warn().Err(err).Msg("Outcome cache write failed")
		}
	}

	resp.WriteHeaderAndEntity(http.StatusOK, newDescriptionsResponse(genRequest.Name, strict, outcome, false))
}

// POST /api/v1/validate?strict=<bool>
// Body: ValidationRequest
// Returns: ValidationResponse
func (h *Handler) ValidateDescriptions(req *restful.Request, resp *restful.Response) {
	var valRequest ValidationRequest
	if err := req.ReadEntity(&valRequest); err != nil {
		h.logger.Error().Err(err).Msg("Failed to parse request body")
		middleware.HandleError(resp, err, http.StatusBadRequest)
		return
	}
	if len(valRequest.Descriptions) == 0 {
		middleware.HandleError(resp, fmt.Errorf("no descriptions supplied"), http.StatusBadRequest)
		return
	}

	strict := parseStrict(req)
	v := h.validator
	if strict {
		v = h.strictValidator
	}

	verdict := v.ValidateBatch(valRequest.Descriptions, valRequest.Name)

	resp.WriteHeaderAndEntity(http.StatusOK, ValidationResponse{
		Name:       valRequest.Name,
		Strict:     strict,
		Results:    verdict.Results,
		AllValid:   verdict.AllValid(),
		ValidCount: verdict.ValidCount(),
		TotalCount: verdict.TotalCount(),
	})
}

// GET /api/v1/tiers
func (h *Handler) Tiers(req *restful.Request, resp *restful.Response) {
	tiers := make([]TierInfo, 0, len(models.AllTiers()))
	for _, tier := range models.AllTiers() {
		limits, ok := rules.LimitsFor(tier)
		if !ok {
			continue
		}
		tiers = append(tiers, TierInfo{
			Tier:       tier,
			MinChars:   limits.MinChars,
			MaxChars:   limits.MaxChars,
			MaxTokens:  limits.MaxTokens,
			WordBudget: limits.WordBudget,
			Structure:  limits.Structure,
		})
	}

	resp.WriteHeaderAndEntity(http.StatusOK, TiersResponse{Tiers: tiers})
}

// GET /api/v1/outcomes?limit=<n>
func (h *Handler) RecentOutcomes(req *restful.Request, resp *restful.Response) {
	if h.history == nil {
		middleware.HandleError(resp, fmt.Errorf("outcome store not configured"), http.StatusServiceUnavailable)
		return
	}

	limit := parseLimit(req)
	rows, err := h.history.ListRecent(req.Request.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to list stored outcomes")
		middleware.HandleError(resp, err, http.StatusInternalServerError)
		return
	}

	resp.WriteHeaderAndEntity(http.StatusOK, OutcomesResponse{
		Outcomes: rows,
		Count:    len(rows),
	})
}

// GET /api/v1/health
func (h *Handler) Health(req *restful.Request, resp *restful.Response) {
	resp.WriteHeaderAndEntity(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: "1.0.0",
	})
}

func parseStrict(req *restful.Request) bool {
	strict, err := strconv.ParseBool(req.QueryParameter("strict"))
	if err != nil {
		return false
	}
	return strict
}

func parseLimit(req *restful.Request) int {
	limit, err := strconv.Atoi(req.QueryParameter("limit"))
	if err != nil || limit < 1 {
		return 20
	}
	if limit > 100 {
		limit = 100
	}
	return limit
}

// outcomeKey builds the cache key. Strict runs are cached separately because
// the same request can produce different outcomes per mode.
func outcomeKey(req models.GenerationRequest, strict bool) string {
	if strict {
		return req.Fingerprint() + ":strict"
	}
	return req.Fingerprint()
}
