// Package logger builds the zerolog loggers used by the CLI.
package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// NewConsole creates a human-readable logger on w at info level, or debug
// when verbose. The CLI passes the command's stderr.
func NewConsole(w io.Writer, verbose bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	return zerolog.New(output).Level(level(verbose)).With().Timestamp().Logger()
}

// NewWithWriter creates a JSON logger on w.
func NewWithWriter(w io.Writer, verbose bool) zerolog.Logger {
	return zerolog.New(w).Level(level(verbose)).With().Timestamp().Logger()
}

func level(verbose bool) zerolog.Level {
	if verbose {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}
