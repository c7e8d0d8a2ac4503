// SPDX-License-Identifier: MPL-2.0

// Package logging configures the process-wide structured logger.
//
// Library packages log through log/slog; Setup installs a charmbracelet/log
// handler as the slog default so every record is rendered the same way on
// stderr.
package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// Options controls the logger installed by Setup.
type Options struct {
	// Verbose lowers the level from warn to debug.
	Verbose bool
	// Timestamps adds a time column. Off by default to keep CLI output terse.
	Timestamps bool
}

// New returns a charmbracelet logger writing to w.
func New(w io.Writer, opts Options) *log.Logger {
	level := log.WarnLevel
	if opts.Verbose {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Prefix:          "envcheck",
		Level:           level,
		ReportTimestamp: opts.Timestamps,
	})
}

// Setup installs a logger writing to w as the slog default and returns it.
func Setup(w io.Writer, opts Options) *slog.Logger {
	logger := slog.New(New(w, opts))
	slog.SetDefault(logger)
	return logger
}
