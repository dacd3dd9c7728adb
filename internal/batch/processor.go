package batch

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/generator"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
)

// Result is one processed record. Outcome is nil when the record was
// malformed or generation produced nothing usable.
type Result struct {
	LineNumber int                  `json:"line"`
	Name       string               `json:"name,omitempty"`
	Outcome    *models.RetryOutcome `json:"outcome,omitempty"`
	Error      string               `json:"error,omitempty"`
	DurationMS int64                `json:"duration_ms"`
}

type Processor struct {
	retrier *generator.Retrier
	workers int
	strict  bool
	logger  *zerolog.Logger
}

func NewProcessor(retrier *generator.Retrier, workers int, strict bool, logger *zerolog.Logger) *Processor {
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		retrier: retrier,
		workers: workers,
		strict:  strict,
		logger:  logger,
	}
}

// Process runs records through the retry pipeline with the configured worker
// count. Results arrive in completion order, not input order; callers needing
// input order can sort by LineNumber.
func (p *Processor) Process(ctx context.Context, records []InputRecord) <-chan Result {
	out := make(chan Result)
	jobs := make(chan InputRecord)

	var wg sync.WaitGroup
	for range p.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for record := range jobs {
				select {
				case out <- p.run(ctx, record):
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, record := range records {
			select {
			case jobs <- record:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

func (p *Processor) run(ctx context.Context, record InputRecord) Result {
	result := Result{LineNumber: record.LineNumber, Name: record.Request.Name}

	if record.Error != nil {
		result.Error = record.Error.Error()
		return result
	}

	start := time.Now()
	outcome, err := p.retrier.Run(ctx, record.Request, p.strict)
	result.DurationMS = time.Since(start).Milliseconds()

	if err != nil {
		p.logger.Error().Err(err).
			Int("line", record.LineNumber).
			Str("name", record.Request.Name).
			Msg("Record failed")
		result.Error = err.Error()
		return result
	}

	p.logger.Debug().
		Int("line", record.LineNumber).
		Str("name", record.Request.Name).
		Int("valid_count", outcome.ValidCount).
		Int("attempts", outcome.Attempts).
		Msg("Record processed")

	result.Outcome = &outcome
	return result
}
