package generator

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/postprocess"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/rules"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/validator"
)

//go:generate mockgen -source=retry.go -destination=mocks/mock_source.go -package=mocks

// CandidateSource produces one raw generation attempt.
type CandidateSource interface {
	GenerateCandidate(ctx context.Context, req models.GenerationRequest) (*models.RawCandidate, error)
}

// ErrNoUsableResult reports that no attempt produced parseable model output.
var ErrNoUsableResult = errors.New("no usable generation result")

// Retrier reruns generation until every tier validates or the attempt budget
// is spent, keeping the best-scoring candidate seen.
type Retrier struct {
	source      CandidateSource
	processor   *postprocess.Processor
	normal      *validator.Validator
	strict      *validator.Validator
	maxAttempts int
	logger      *zerolog.Logger
}

// NewRetrier builds a retry controller. maxAttempts below 1 is clamped to 1.
func NewRetrier(source CandidateSource, processor *postprocess.Processor, normal, strict *validator.Validator, maxAttempts int, logger *zerolog.Logger) *Retrier {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Retrier{
		source:      source,
		processor:   processor,
		normal:      normal,
		strict:      strict,
		maxAttempts: maxAttempts,
		logger:      logger,
	}
}

// Run generates up to the attempt budget and returns the candidate with the
// most valid tiers. A failed or unparsable attempt consumes budget. The loop
// exits early when every tier validates, or in strict mode when every
// supplied tier already sits inside its character band. When no attempt ever
// parses, Descriptions is nil and ErrNoUsableResult is returned.
func (r *Retrier) Run(ctx context.Context, req models.GenerationRequest, strict bool) (models.RetryOutcome, error) {
	v := r.normal
	if strict {
		v = r.strict
	}

	var (
		outcome     models.RetryOutcome
		best        map[models.Tier]string
		bestVerdict models.BatchVerdict
		bestValid   int
	)
	expected := len(models.AllTiers())

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			break
		}
		outcome.Attempts = attempt

		candidate, err := r.source.GenerateCandidate(ctx, req)
		if err != nil {
			r.logger.Warn().
				Err(err).
				Int("attempt", attempt).
				Str("name", req.Name).
				Msg("generation attempt failed")
			if ctx.Err() != nil {
				break
			}
			continue
		}

		processed := r.processor.ApplyAll(candidate.Descriptions)
		verdict := v.ValidateBatch(processed, req.Name)
		valid := verdict.ValidCount()

		// Ties keep the earlier candidate.
		if best == nil || valid > bestValid {
			best = processed
			bestVerdict = verdict
			bestValid = valid
		}

		if valid == expected {
			outcome.EarlyExit = true
			r.logger.Debug().Int("attempt", attempt).Str("name", req.Name).Msg("all tiers valid")
			break
		}
		if strict && withinBands(processed) {
			outcome.EarlyExit = true
			r.logger.Debug().Int("attempt", attempt).Str("name", req.Name).Msg("character bands satisfied")
			break
		}
	}

	if best == nil {
		return outcome, ErrNoUsableResult
	}

	outcome.Descriptions = best
	outcome.Verdicts = bestVerdict
	outcome.ValidCount = bestValid
	return outcome, nil
}

// withinBands reports whether every supplied tier's text lands inside its
// character band. Content rules are not consulted; tiers the candidate did
// not supply are skipped.
func withinBands(descriptions map[models.Tier]string) bool {
	if len(descriptions) == 0 {
		return false
	}
	for tier, text := range descriptions {
		limits, ok := rules.LimitsFor(tier)
		if !ok {
			continue
		}
		if !limits.Contains(utf8.RuneCountInString(strings.TrimSpace(text))) {
			return false
		}
	}
	return true
}
