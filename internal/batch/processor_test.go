package batch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/generator"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/generator/mocks"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/postprocess"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/validator"
)

func newRetrier(source generator.CandidateSource, maxAttempts int) *generator.Retrier {
	logger := zerolog.Nop()
	return generator.NewRetrier(source, postprocess.NewProcessor(), validator.New(false), validator.New(true), maxAttempts, &logger)
}

func cleanCandidate() *models.RawCandidate {
	return &models.RawCandidate{
		Descriptions: map[models.Tier]string{
			models.TierShort:  "Routing policies during node outage",
			models.TierMedium: "Traffic shaping profile for upstream gateway clusters. Rate limits apply per client network segment and protect shared capacity.",
			models.TierLong:   strings.TrimSpace(strings.Repeat("Network policy data. ", 20)),
		},
		TokensUsed: 150,
	}
}

func validRecord(line int, name string) InputRecord {
	return InputRecord{
		LineNumber: line,
		Request:    models.GenerationRequest{Name: name, Features: []string{"token bucket"}},
	}
}

func collectResults(ch <-chan Result) map[int]Result {
	results := make(map[int]Result)
	for result := range ch {
		results[result.LineNumber] = result
	}
	return results
}

func TestProcessorRunsAllRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mocks.NewMockCandidateSource(ctrl)
	source.EXPECT().GenerateCandidate(gomock.Any(), gomock.Any()).Return(cleanCandidate(), nil).Times(3)

	records := []InputRecord{
		validRecord(1, "rate_limiter"),
		validRecord(2, "edge_router"),
		validRecord(3, "load_shedder"),
	}

	processor := NewProcessor(newRetrier(source, 3), 2, false, newTestLogger())
	results := collectResults(processor.Process(context.Background(), records))

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for line, result := range results {
		if result.Error != "" {
			t.Errorf("line %d: unexpected error %q", line, result.Error)
		}
		if result.Outcome == nil {
			t.Errorf("line %d: missing outcome", line)
			continue
		}
		if result.Outcome.ValidCount != len(models.AllTiers()) {
			t.Errorf("line %d: valid count %d", line, result.Outcome.ValidCount)
		}
	}
}

func TestProcessorPassesThroughMalformedRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mocks.NewMockCandidateSource(ctrl)
	source.EXPECT().GenerateCandidate(gomock.Any(), gomock.Any()).Return(cleanCandidate(), nil).Times(1)

	records := []InputRecord{
		validRecord(1, "rate_limiter"),
		{LineNumber: 2, Error: errors.New("line 2: invalid character 'x'")},
	}

	processor := NewProcessor(newRetrier(source, 3), 2, false, newTestLogger())
	results := collectResults(processor.Process(context.Background(), records))

	if results[1].Outcome == nil || results[1].Error != "" {
		t.Errorf("line 1 should succeed: %+v", results[1])
	}
	if results[2].Error == "" {
		t.Error("line 2 should carry the reader error")
	}
	if results[2].Outcome != nil {
		t.Error("malformed records must not reach the pipeline")
	}
}

func TestProcessorReportsExhaustedRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mocks.NewMockCandidateSource(ctrl)
	source.EXPECT().GenerateCandidate(gomock.Any(), gomock.Any()).Return(nil, errors.New("model unavailable")).Times(2)

	records := []InputRecord{validRecord(1, "rate_limiter")}

	processor := NewProcessor(newRetrier(source, 2), 1, false, newTestLogger())
	results := collectResults(processor.Process(context.Background(), records))

	if !strings.Contains(results[1].Error, "no usable generation result") {
		t.Errorf("Error = %q, want the exhaustion sentinel text", results[1].Error)
	}
	if results[1].Outcome != nil {
		t.Error("exhausted records should have no outcome")
	}
}

func TestProcessorClampsWorkerCount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	source := mocks.NewMockCandidateSource(ctrl)
	source.EXPECT().GenerateCandidate(gomock.Any(), gomock.Any()).Return(cleanCandidate(), nil)

	processor := NewProcessor(newRetrier(source, 3), 0, false, newTestLogger())
	results := collectResults(processor.Process(context.Background(), []InputRecord{validRecord(1, "rate_limiter")}))

	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
}
