// Package logging wires Aura's structured logger. The aura command logs
// through a *zerolog.Logger obtained here rather than the standard library
// log package, matching the corpus's preference for structured, leveled
// logging over fmt/log; the internal packages do not log themselves.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New returns a console-friendly zerolog.Logger writing to w, leveled by
// verbose (debug when true, info otherwise).
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	return zerolog.New(console).Level(level).With().Timestamp().Logger()
}

// NewStderr is the production default: console-formatted logs on stderr so
// stdout stays reserved for snapshot/watch output.
func NewStderr(verbose bool) zerolog.Logger {
	return New(os.Stderr, verbose)
}
