// Package factor implements the closed set of tabular factor variants of
// spec.md §3: unary/pairwise/triplet simplex factors, the multicut edge,
// triplet and global-consistency factors, and the tightening-added
// odd-wheel and discrete-tomography counting factors.
//
// Every variant satisfies Factor; each additionally exposes the
// variant-specific min-marginal accessors (MinMarginal, MinMarginal1/2,
// MinMarginal12/13/23, ...) that package message dispatches against
// statically, per spec.md §9's "dispatch is static per message kind,
// dynamic only at the level of one-of-N-known-variants" redesign note.
package factor

import (
	"io"

	"github.com/dualbca/dualbca/costs"
)

// Kind tags which of the closed set of factor variants a Factor is.
type Kind int

const (
	KindUnarySimplex Kind = iota
	KindPairwiseSimplex
	KindTripletSimplex
	KindMulticutEdge
	KindMulticutTriplet
	KindMulticutGlobal
	KindOddWheel
	KindTomographyCounting
)

func (k Kind) String() string {
	switch k {
	case KindUnarySimplex:
		return "unary_simplex"
	case KindPairwiseSimplex:
		return "pairwise_simplex"
	case KindTripletSimplex:
		return "triplet_simplex"
	case KindMulticutEdge:
		return "multicut_edge"
	case KindMulticutTriplet:
		return "multicut_triplet"
	case KindMulticutGlobal:
		return "multicut_global"
	case KindOddWheel:
		return "odd_wheel"
	case KindTomographyCounting:
		return "tomography_counting"
	default:
		return "unknown"
	}
}

// SATClause is the pure data a factor emits for the optional exact-rounding
// SAT backend. CreateConstraints in the original engine; here it is plain
// data, never behavior, since the backend itself is out of scope.
// Literal i refers to boolean variable Vars[i] negated iff Negated[i].
type SATClause struct {
	Vars    []int
	Negated []bool
}

// Factor is the common contract every tabular factor satisfies: its size
// (number of dual variables it owns), its contribution to the dual lower
// bound, primal lifecycle and evaluation, and checkpoint serialization.
type Factor interface {
	Kind() Kind

	// Size returns the number of entries (dual variables) this factor owns.
	Size() int

	// LowerBound returns the current minimum over all entries: this
	// factor's contribution to the dual bound.
	LowerBound() costs.Cost

	// EvaluatePrimal returns the cost of the currently decided primal
	// labeling, or +Inf if the labeling is incomplete or forbidden.
	EvaluatePrimal() costs.Cost

	// InitPrimal resets every entry of the primal slot to Unknown.
	InitPrimal()

	// PrimalDecided reports whether every primal entry has been committed
	// (no Unknown entries remain).
	PrimalDecided() bool

	// ConstructSATClauses emits this factor's constraints for the exact
	// SAT/ILP rounding backend. Pure: it must not mutate the factor.
	// leftVar is the first SAT boolean variable index this factor owns;
	// it owns Size() consecutive indices starting there. rightVar is
	// unused by most variants and is reserved for message-pair encodings.
	ConstructSATClauses(leftVar, rightVar int) []SATClause

	SerializeDual(w io.Writer) error
	DeserializeDual(r io.Reader) error
	SerializePrimal(w io.Writer) error
	DeserializePrimal(r io.Reader) error
}
