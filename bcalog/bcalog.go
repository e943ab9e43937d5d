// Package bcalog wraps github.com/rs/zerolog as the CORE's structured
// logging collaborator, grounded on the retrieval pack's zerolog usage
// (_examples/joeycumines-go-utilpkg/logiface-zerolog/zerolog.go and its
// logiface/zerolog sibling) and on the level of detail the source's
// StandardVisitor prints to stdout.
//
// Logging is always injected as a Logger value on the consuming struct
// (scheduler.Scheduler.Log), never read from a package
// global, so library users can wire their own zerolog writer or silence
// output entirely.
package bcalog

import (
	"io"

	"github.com/rs/zerolog"
)

// Logger is a thin handle around zerolog.Logger exposing exactly the
// levels the CORE emits: Debug per sweep, Info per tightening pass, Warn
// and Error for non-fatal and fatal bcaerr conditions.
type Logger struct {
	zl zerolog.Logger
}

// Discard returns a Logger that drops every event, the zero-cost default
// for callers that never configured logging.
func Discard() Logger {
	return Logger{zl: zerolog.New(io.Discard)}
}

// New wraps an existing zerolog.Logger, letting a library caller route
// CORE events into their own sink/format/level configuration.
func New(zl zerolog.Logger) Logger {
	return Logger{zl: zl}
}

// Sweep logs one Debug-level event for a sweep; scheduler.Scheduler.Run
// calls it once per iteration, covering the forward+backward pair.
func (l Logger) Sweep(iter int, direction string, lowerBound float64, elapsedMS int64) {
	l.zl.Debug().
		Int("iter", iter).
		Str("direction", direction).
		Float64("lower_bound", lowerBound).
		Int64("elapsed_ms", elapsedMS).
		Msg("sweep")
}

// Tighten logs one Info-level event per completed tightening pass.
func (l Logger) Tighten(constraintsAdded int, newLowerBound float64) {
	l.zl.Info().
		Int("constraints_added", constraintsAdded).
		Float64("lower_bound", newLowerBound).
		Msg("tighten")
}

// Warn logs a non-fatal bcaerr condition (e.g. a tightening pass that
// found nothing to add).
func (l Logger) Warn(kind string, msg string) {
	l.zl.Warn().Str("kind", kind).Msg(msg)
}

// Error logs a fatal bcaerr condition before it is returned to the
// caller.
func (l Logger) Error(kind string, msg string) {
	l.zl.Error().Str("kind", kind).Msg(msg)
}
