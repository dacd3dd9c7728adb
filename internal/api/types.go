package api

import (
	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/store"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// DescriptionsResponse reports one generation run.
type DescriptionsResponse struct {
	Name         string                 `json:"name"`
	Strict       bool                   `json:"strict"`
	Descriptions map[models.Tier]string `json:"descriptions"`
	Verdicts     models.BatchVerdict    `json:"verdicts"`
	ValidCount   int                    `json:"valid_count"`
	Attempts     int                    `json:"attempts"`
	EarlyExit    bool                   `json:"early_exit"`
	AllValid     bool                   `json:"all_valid"`
	Cached       bool                   `json:"cached"`
}

func newDescriptionsResponse(name string, strict bool, outcome models.RetryOutcome, cached bool) DescriptionsResponse {
	return DescriptionsResponse{
		Name:         name,
		Strict:       strict,
		Descriptions: outcome.Descriptions,
		Verdicts:     outcome.Verdicts,
		ValidCount:   outcome.ValidCount,
		Attempts:     outcome.Attempts,
		EarlyExit:    outcome.EarlyExit,
		AllValid:     outcome.ValidCount == len(models.AllTiers()),
		Cached:       cached,
	}
}

// ValidationRequest carries caller-supplied descriptions to check without
// generating anything.
type ValidationRequest struct {
	Name         string                 `json:"name"`
	Descriptions map[models.Tier]string `json:"descriptions"`
}

type ValidationResponse struct {
	Name       string                                   `json:"name"`
	Strict     bool                                     `json:"strict"`
	Results    map[models.Tier]models.ValidationVerdict `json:"results"`
	AllValid   bool                                     `json:"all_valid"`
	ValidCount int                                      `json:"valid_count"`
	TotalCount int                                      `json:"total_count"`
}

// TierInfo describes one tier's length contract.
type TierInfo struct {
	Tier       models.Tier `json:"tier"`
	MinChars   int         `json:"min_chars"`
	MaxChars   int         `json:"max_chars"`
	MaxTokens  int         `json:"max_tokens"`
	WordBudget string      `json:"word_budget"`
	Structure  string      `json:"structure"`
}

type TiersResponse struct {
	Tiers []TierInfo `json:"tiers"`
}

// OutcomesResponse lists persisted generation runs, newest first.
type OutcomesResponse struct {
	Outcomes []store.StoredOutcome `json:"outcomes"`
	Count    int                   `json:"count"`
}
