// Copyright 2026 The Codebrief Authors
// SPDX-License-Identifier: MIT

// Package log configures structured logging for codebrief using log/slog.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// Log output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Level maps the verbosity flags to a minimum level. Quiet wins over verbose.
func Level(verbose, quiet bool) slog.Level {
	switch {
	case quiet:
		return slog.LevelWarn
	case verbose:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}

// New returns a logger writing to w in the given format. An empty format
// means text.
func New(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case "", FormatText:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (must be text or json)", format)
	}
}

// Setup installs the default logger on stderr. stdout is left to command
// output and, for mcp serve, to the protocol stream.
func Setup(verbose, quiet bool, format string) error {
	logger, err := New(os.Stderr, Level(verbose, quiet), format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	return nil
}
