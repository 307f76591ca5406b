// Package obslog is the structured logging entry point shared by
// cmd/weft and cmd/weftd. The teacher (jpleph) gates fmt.Printf debug
// traces behind a package-level debugFlag/setDebugFlag; this module
// upgrades that to github.com/rs/zerolog, grounded on the pack's
// laureano57-astroeph-api (an HTTP ephemeris API in the same domain),
// since cmd/weftd is a long-running server that needs leveled, JSON
// request logs rather than a printf toggle.
package obslog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// logger is the process-wide logger, configured once by New and read
// by every other package through L().
var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

// Config controls the process-wide logger's output and verbosity.
type Config struct {
	// JSON selects structured JSON output (for cmd/weftd); the
	// default console writer is used otherwise (for cmd/weft).
	JSON bool
	// Debug enables debug-level logging, matching the teacher's
	// setDebugFlag(true) but applied to every log site instead of a
	// handful of interp/State prints.
	Debug bool
	Out   io.Writer
}

// New installs the process-wide logger per cfg and returns it.
func New(cfg Config) zerolog.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	var w io.Writer = out
	if !cfg.JSON {
		w = zerolog.ConsoleWriter{Out: out}
	}
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	return logger
}

// L returns the process-wide logger.
func L() *zerolog.Logger {
	return &logger
}
