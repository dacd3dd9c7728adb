package main

import (
	"context"
	"flag"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/robinmordasiewicz/ollama-description-writer/internal/batch"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/models"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/setup"
	"github.com/robinmordasiewicz/ollama-description-writer/internal/tracking"
)

func main() {
	startTime := time.Now()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	input := flag.String("input", "", "Input JSONL file, '-' for stdin")
	output := flag.String("output", "", "Output file, empty for stdout")
	format := flag.String("format", "jsonl", "Output format. Supported formats: 'jsonl', 'summary'")
	workers := flag.Int("workers", 5, "Concurrent generation workers")
	attempts := flag.Int("attempts", 0, "Override MAX_ATTEMPTS when > 0")
	strict := flag.Bool("strict", false, "Promote validation warnings to errors")
	continueOnError := flag.Bool("continue-on-error", true, "Continue on generation failures")
	dryRun := flag.Bool("dry-run", false, "Validate input without generating")
	track := flag.Bool("track", false, "Record this run in the experiment matrix")
	trackFile := flag.String("track-file", "results/experiment_matrix.json", "Experiment matrix path")
	promptVersion := flag.String("prompt-version", "v1", "Prompt version label for tracking")
	showMatrix := flag.Bool("show-matrix", false, "Print the experiment matrix comparison and exit")

	flag.Parse()

	if *showMatrix {
		showMatrixAndExit(*trackFile)
	}

	if *input == "" {
		log.Fatal().Msg("required flag -input not provided")
	}
	formatValidator(format)

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	ctx, cancel := setupGracefulShutdown()
	defer cancel()

	cfg := setup.LoadConfig()
	if *attempts > 0 {
		cfg.MaxAttempts = *attempts
	}

	deps, err := setup.Wire(ctx, cfg, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}

	// Open input file
	var inputFile io.Reader
	if *input == "-" {
		inputFile = os.Stdin
		log.Info().Msg("Reading from stdin")
	} else {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatal().Err(err).Str("file", *input).Msg("Failed to open input file")
		}
		defer f.Close()
		inputFile = f
		log.Info().Str("file", *input).Msg("Reading input file")
	}

	// Read records
	reader := batch.NewReader(inputFile, deps.Logger)
	recordsCh := reader.ReadAll(ctx)

	var records []batch.InputRecord
	for record := range recordsCh {
		records = append(records, record)
	}

	log.Info().Int("total", len(records)).Msg("Input file parsed")

	// Dry run validation
	if *dryRun {
		dryRunAndExit(records)
	}

	// Open output file
	var outputFile io.Writer
	if *output == "" {
		outputFile = os.Stdout
		log.Info().Msg("Writing to stdout")
	} else {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal().Err(err).Str("file", *output).Msg("Failed to create output file")
		}
		defer f.Close()
		outputFile = f
		log.Info().Str("file", *output).Msg("Writing to output file")
	}

	// Create writer
	writer, err := batch.NewWriter(outputFile, *format, deps.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create writer")
	}
	defer writer.Close()

	// Process with worker pool
	processor := batch.NewProcessor(deps.Retrier, *workers, *strict, deps.Logger)
	results := processor.Process(ctx, records)

	// Write results
	successCount := 0
	errorCount := 0
	var outcomes []models.RetryOutcome

	for result := range results {
		if err := writer.Write(result); err != nil {
			log.Error().Err(err).Int("line", result.LineNumber).Msg("Failed to write result")
			errorCount++

			if !*continueOnError {
				log.Fatal().Msg("Stopping due to write error")
			}
			continue
		}

		if result.Error != "" {
			errorCount++

			if !*continueOnError {
				log.Fatal().
					Int("line", result.LineNumber).
					Str("error", result.Error).
					Msg("Stopping due to generation failure")
			}
			continue
		}

		successCount++
		if result.Outcome != nil {
			outcomes = append(outcomes, *result.Outcome)
		}
	}

	log.Info().
		Int("success", successCount).
		Int("errors", errorCount).
		Dur("duration", time.Since(startTime)).
		Msg("Processing complete")

	if *track {
		recordExperimentRun(ctx, deps, cfg, *trackFile, *promptVersion, outcomes)
	}

	log.Info().Msg("Batch processing complete")
}

func setupGracefulShutdown() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Warn().Msg("Received interrupt signal, finishing current work...")
		cancel()
	}()

	return ctx, cancel
}

func formatValidator(format *string) {
	validFormats := map[string]bool{"jsonl": true, "summary": true}
	if !validFormats[*format] {
		log.Fatal().
			Str("format", *format).
			Msg("Invalid format. Supported: jsonl, summary")
	}
}

func dryRunAndExit(records []batch.InputRecord) {
	errorCount := 0
	for _, record := range records {
		if record.Error != nil {
			log.Error().
				Int("line", record.LineNumber).
				Err(record.Error).
				Msg("Validation error")
			errorCount++
		}
	}

	if errorCount > 0 {
		log.Fatal().Int("errors", errorCount).Msg("Validation failed")
	}

	log.Info().Msg("Validation successful")
	os.Exit(0)
}

func showMatrixAndExit(trackFile string) {
	matrix, err := tracking.LoadMatrix(trackFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", trackFile).Msg("Failed to load experiment matrix")
	}

	if len(matrix.Runs) == 0 {
		log.Info().Str("file", trackFile).Msg("No experiment runs recorded yet")
		os.Exit(0)
	}

	matrix.WriteComparison(os.Stdout)
	os.Exit(0)
}

func recordExperimentRun(ctx context.Context, deps *setup.Dependencies, cfg *setup.Config, trackFile, promptVersion string, outcomes []models.RetryOutcome) {
	if len(outcomes) == 0 {
		log.Warn().Msg("No successful outcomes to track")
		return
	}

	tracker := tracking.NewTracker(trackFile, deps.Logger)
	run, err := tracker.RecordRun(ctx, promptVersion, cfg.ActiveModel(), cfg.Temperature, outcomes)
	if err != nil {
		log.Error().Err(err).Msg("Failed to record experiment run")
		return
	}

	log.Info().
		Str("run_id", run.RunID).
		Str("file", trackFile).
		Float64("validity_rate", run.ValidityRate).
		Msg("Experiment run recorded")
}
