package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
	"github.com/muesli/termenv"
)

// newLogger returns the slog logger handed to the library packages. Output
// goes to w at debug level with --verbose, warn level otherwise, and is
// discarded with --quiet.
func newLogger(w io.Writer) *slog.Logger {
	if quiet {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	h := log.NewWithOptions(w, log.Options{
		Prefix: "appxctl",
		Level:  level,
	})
	if noColor {
		h.SetColorProfile(termenv.Ascii)
	}
	return slog.New(h)
}

func stderrLogger() *slog.Logger { return newLogger(os.Stderr) }
