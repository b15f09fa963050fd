// Package ulog is updrm's thin shared logging surface over zerolog. The
// default logger is silent (io.Discard) so that library consumers of
// package steg never see log output unless they opt in with SetOutput
// or EnableConsole; cmd/updrm calls EnableConsole for its
// console-friendly CLI output.
package ulog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the shared logger every updrm package writes through.
var Logger = zerolog.New(io.Discard).With().Timestamp().Logger()

// EnableConsole switches Logger to human-readable console output on
// stderr, the way cmd/updrm does on startup.
func EnableConsole(verbose bool) {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

// SetOutput redirects Logger to an arbitrary writer, mainly for tests
// that want to assert on log content.
func SetOutput(w io.Writer) {
	Logger = zerolog.New(w).With().Timestamp().Logger()
}
