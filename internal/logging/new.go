package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/rs/zerolog"
)

// Output formats accepted by New.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New builds the process logger. "json" (the default) writes slog JSON
// records, "console" writes zerolog's human-readable lines.
func New(format, level string, w io.Writer) (Logger, error) {
	if level == "" {
		level = "info"
	}

	switch strings.ToLower(format) {
	case "", FormatJSON:
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
		return NewSlogLogger(slog.New(h)), nil

	case FormatConsole:
		lvl, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
		cw := zerolog.ConsoleWriter{Out: w, NoColor: true}
		l := zerolog.New(cw).Level(lvl).With().Timestamp().Logger()
		return NewZerologLogger(l), nil

	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
}

// Discard returns a Logger that drops every record.
func Discard() Logger {
	return NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}
