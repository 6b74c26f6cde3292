// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package observability builds the diagnostic logger shared by all stages.
// Progress and summaries meant for the user are written separately to the
// command's output writer; this logger carries the detail behind them.
package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/docmark/pkg/types"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// NewLogger returns a zerolog.Logger configured by cfg, writing to out
// (stderr when nil).
func NewLogger(cfg types.LogConfig, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}

	var w io.Writer = out
	if !strings.EqualFold(cfg.Format, FormatJSON) {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	return zerolog.New(w).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Str("app", "docmark").
		Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
