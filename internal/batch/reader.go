// Package batch reads JSONL generation requests, fans them out over a worker
// pool, and writes results as JSONL or an aggregate summary.
package batch

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
)

// InputRecord is one parsed input line. Error is set for lines that fail to
// decode or normalize; LineNumber always refers to the original file.
type InputRecord struct {
	LineNumber int
	Request    models.GenerationRequest
	Error      error
}

type Reader struct {
	r      io.Reader
	logger *zerolog.Logger
}

func NewReader(r io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{r: r, logger: logger}
}

// ReadAll streams records until EOF or context cancellation. Blank lines are
// skipped but still counted, so reported line numbers match the editor's.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	ch := make(chan InputRecord)

	go func() {
		defer close(ch)

		scanner := bufio.NewScanner(r.r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		lineNumber := 0
		for scanner.Scan() {
			lineNumber++

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			record := InputRecord{LineNumber: lineNumber}

			var req models.GenerationRequest
			if err := json.Unmarshal([]byte(line), &req); err != nil {
				record.Error = fmt.Errorf("line %d: %w", lineNumber, err)
			} else if err := req.Normalize(); err != nil {
				record.Error = fmt.Errorf("line %d: %w", lineNumber, err)
			} else {
				record.Request = req
			}

			select {
			case ch <- record:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil {
			r.logger.Error().Err(err).Msg("Failed to read input")
			select {
			case ch <- InputRecord{LineNumber: lineNumber + 1, Error: fmt.Errorf("read input: %w", err)}:
			case <-ctx.Done():
			}
		}
	}()

	return ch
}
