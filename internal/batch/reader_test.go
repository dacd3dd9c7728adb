package batch

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestReader_InvalidFile(t *testing.T) {
	file := strings.NewReader("invalid file content")

	reader := NewReader(file, newTestLogger())
	ch := reader.ReadAll(context.Background())

	for record := range ch {
		if record.Error == nil {
			t.Errorf("expected parse error for invalid JSON, but got none")
		}
	}
}

func TestReader_ValidFile(t *testing.T) {
	inputFile := `{"name":"rate_limiter","features":["token bucket","per-client quotas"]}
  {"name":"edge_router","features":["weighted routing"],"category":"traffic management"}`

	file := strings.NewReader(inputFile)

	reader := NewReader(file, newTestLogger())
	ch := reader.ReadAll(context.Background())

	count := 0
	for record := range ch {
		count++
		if record.Error != nil {
			t.Errorf("Error reading generation request record. Got: %s", record.Error)
		}
		if record.Request.Name == "" {
			t.Error("Expected a populated request")
		}
	}
	if count != 2 {
		t.Errorf("Expected 2 generation requests. Got: %d", count)
	}
}

func TestReader_NormalizeFailures(t *testing.T) {
	inputFile := `{"name":"","features":["token bucket"]}
{"name":"rate_limiter","features":[]}
{"name":"rate_limiter","features":["   "]}`

	file := strings.NewReader(inputFile)

	reader := NewReader(file, newTestLogger())
	ch := reader.ReadAll(context.Background())

	count := 0
	for record := range ch {
		count++
		if record.Error == nil {
			t.Errorf("line %d: expected a normalize error", record.LineNumber)
		}
	}
	if count != 3 {
		t.Errorf("Expected 3 records. Got: %d", count)
	}
}

func TestReader_ContextCancellation(t *testing.T) {
	var lines []string
	for i := 0; i < 100; i++ {
		lines = append(lines, `{"name":"rate_limiter","features":["token bucket"]}`)
	}
	file := strings.NewReader(strings.Join(lines, "\n"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	reader := NewReader(file, newTestLogger())

	ch := reader.ReadAll(ctx)
	count := 0
	for range ch {
		count++
		if count == 5 {
			cancel()
			break
		}
	}

	if count >= 100 {
		t.Errorf("expected early cancellation, but read all records")
	}
}

func TestReader_LineNumbers(t *testing.T) {
	inputFile := `{"name":"rate_limiter","features":["token bucket"]}

{"invalid json}
{"name":"edge_router","features":["weighted routing"]}`

	file := strings.NewReader(inputFile)
	reader := NewReader(file, newTestLogger())

	ch := reader.ReadAll(context.Background())
	records := []InputRecord{}
	for record := range ch {
		records = append(records, record)
	}

	if len(records) != 3 {
		t.Fatalf("Expected 3 records (blank line skipped), got %d", len(records))
	}
	if records[0].LineNumber != 1 {
		t.Errorf("first record should be line 1, got %d", records[0].LineNumber)
	}
	if records[1].LineNumber != 3 {
		t.Errorf("error record should be line 3, got %d", records[1].LineNumber)
	}
	if records[1].Error == nil {
		t.Error("line 3 should carry a parse error")
	}
	if records[2].LineNumber != 4 {
		t.Errorf("third record should be line 4, got %d", records[2].LineNumber)
	}
}
