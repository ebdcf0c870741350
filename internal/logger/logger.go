// Package logger builds the zerolog logger used by the CLI and the HTTP server.
package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Config configures the logger.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json or console
	Output     string // stdout, stderr or a file path
	TimeFormat string // time format for log messages
}

// New creates a logger from cfg. The returned closer releases the output
// file, if one was opened.
func New(cfg Config) (zerolog.Logger, io.Closer, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("invalid log level: %w", err)
	}

	var (
		output io.Writer
		closer io.Closer = nopCloser{}
	)
	switch cfg.Output {
	case "stderr", "":
		output = os.Stderr
	case "stdout":
		output = os.Stdout
	default:
		file, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("could not open log file: %w", err)
		}
		output, closer = file, file
	}

	return NewWithWriter(output, level, cfg.Format, cfg.TimeFormat), closer, nil
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, level zerolog.Level, format, timeFormat string) zerolog.Logger {
	if timeFormat == "" {
		timeFormat = time.RFC3339
	}
	if format == "console" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: timeFormat,
		}
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
