// Package bcaerr carries the six error kinds of spec.md §7 across the
// CORE's boundary, generalizing the teacher's sentinel-error-plus-errors.Is
// convention (matrix/errors.go, core/types.go) so that callers can dispatch
// programmatically on Kind instead of matching error strings, since the
// CORE must hand kinds — not just opaque errors — back to a Visitor per
// spec.md §7's table.
package bcaerr

import "fmt"

// Kind enumerates the error categories the CORE can report.
type Kind int

const (
	// InvalidInput marks a malformed factor, message wiring, or config
	// value supplied by the caller.
	InvalidInput Kind = iota
	// InfeasibleProblem marks a hard-constraint factor (MulticutGlobal,
	// TomographyCounting) whose EvaluatePrimal cannot be made finite.
	InfeasibleProblem
	// NumericDomain marks an arithmetic condition the CORE refuses to
	// propagate silently (NaN cost, overflowed convolution index).
	NumericDomain
	// ResourceExhausted marks a MaxMemoryMB or MaxIter budget breach.
	ResourceExhausted
	// TighteningNoProgress marks a tighten.Tighten call that added zero
	// constraints when the caller required forward progress.
	TighteningNoProgress
	// Timeout marks a Timeout budget breach.
	Timeout
)

// String renders the Kind's name.
func (k Kind) String() string {
	switch k {
	case InvalidInput:
		return "InvalidInput"
	case InfeasibleProblem:
		return "InfeasibleProblem"
	case NumericDomain:
		return "NumericDomain"
	case ResourceExhausted:
		return "ResourceExhausted"
	case TighteningNoProgress:
		return "TighteningNoProgress"
	case Timeout:
		return "Timeout"
	default:
		return "Unknown"
	}
}

// Error is the CORE's error type: a Kind plus a human-readable message and
// an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

// New constructs an Error of the given Kind with no wrapped cause.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap constructs an Error of the given Kind wrapping cause.
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("bcaerr: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("bcaerr: %s: %s", e.Kind, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is/As.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is a *Error with the same Kind, letting
// callers write errors.Is(err, bcaerr.New(bcaerr.Timeout, "")) to test the
// category without matching Message text.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}
