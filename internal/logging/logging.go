// Package logging configures the process-wide slog logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Format string

const (
	TextFormat Format = "text"
	JSONFormat Format = "json"
)

// ParseLevel accepts debug, info, warn and error.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

// NewLogger builds a logger writing to writer (stderr when nil).
func NewLogger(format Format, level slog.Level, writer io.Writer) (*slog.Logger, error) {
	if writer == nil {
		writer = os.Stderr
	}
	ho := &slog.HandlerOptions{
		AddSource: false,
		Level:     level,
	}
	switch format {
	case JSONFormat:
		return slog.New(slog.NewJSONHandler(writer, ho)), nil
	case TextFormat, "":
		return slog.New(slog.NewTextHandler(writer, ho)), nil
	default:
		return nil, fmt.Errorf("unexpected log format: %q", format)
	}
}

// Configure installs a new default logger.
func Configure(format Format, level slog.Level, writer io.Writer) error {
	logger, err := NewLogger(format, level, writer)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
