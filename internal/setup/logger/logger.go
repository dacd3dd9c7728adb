package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New builds the process root logger, JSON lines to stdout. Unknown or empty
// level strings fall back to info.
func New(level string) zerolog.Logger {
	return build(os.Stdout, level)
}

// Console builds a human-readable logger for the command-line entrypoints.
func Console(level string) zerolog.Logger {
	return build(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, level)
}

func build(w io.Writer, level string) zerolog.Logger {
	// ParseLevel maps "" to NoLevel without an error; that would filter
	// everything out, so it falls back to info as well.
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
