package factor

import (
	"io"

	"github.com/dualbca/dualbca/costs"
)

// UnarySimplex is the cost of assigning one of size() labels to a single
// variable: an ordered sequence of costs, length >= 1.
type UnarySimplex struct {
	cost   *costs.Vector
	primal []PrimalState
}

// NewUnarySimplex allocates a UnarySimplex over n labels, all-zero costs.
func NewUnarySimplex(n int) *UnarySimplex {
	u := &UnarySimplex{cost: costs.NewVector(n), primal: make([]PrimalState, n)}
	u.InitPrimal()
	return u
}

func (u *UnarySimplex) Kind() Kind { return KindUnarySimplex }
func (u *UnarySimplex) Size() int  { return u.cost.Size() }

// Cost exposes the underlying cost table for message operations.
func (u *UnarySimplex) Cost() *costs.Vector { return u.cost }

// LowerBound is the minimum cost over all labels.
func (u *UnarySimplex) LowerBound() costs.Cost { return u.cost.Min() }

// MinMarginal fills out with the factor's own entries: for a unary
// factor the min-marginal along its only axis is the table itself.
func (u *UnarySimplex) MinMarginal(out *costs.Vector) {
	out.CopyFrom(u.cost)
}

// Repam adds delta componentwise into the cost table.
func (u *UnarySimplex) Repam(delta *costs.Vector) {
	u.cost.AddVector(delta)
}

func (u *UnarySimplex) InitPrimal() { initPrimal(u.primal) }

// SetPrimal commits label as the decided assignment.
func (u *UnarySimplex) SetPrimal(label int) { decideOneOf(u.primal, label) }

// GetPrimal returns the decided label, if any.
func (u *UnarySimplex) GetPrimal() (label int, ok bool) { return decidedIndex(u.primal) }

func (u *UnarySimplex) PrimalDecided() bool { return decided(u.primal) }

// RoundGreedy commits the cheapest label.
func (u *UnarySimplex) RoundGreedy() bool {
	if u.PrimalDecided() {
		return false
	}
	u.SetPrimal(argmin(u.Size(), u.cost.At))
	return true
}

func (u *UnarySimplex) EvaluatePrimal() costs.Cost {
	label, ok := u.GetPrimal()
	if !ok {
		return costs.PosInf
	}
	return u.cost.At(label)
}

func (u *UnarySimplex) ConstructSATClauses(leftVar, _ int) []SATClause {
	// Exactly-one-of-n over the n boolean variables leftVar..leftVar+n-1.
	n := u.Size()
	clauses := make([]SATClause, 0, n+1)
	atLeastOne := SATClause{Vars: make([]int, n), Negated: make([]bool, n)}
	for i := 0; i < n; i++ {
		atLeastOne.Vars[i] = leftVar + i
	}
	clauses = append(clauses, atLeastOne)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			clauses = append(clauses, SATClause{
				Vars:    []int{leftVar + i, leftVar + j},
				Negated: []bool{true, true},
			})
		}
	}
	return clauses
}

func (u *UnarySimplex) SerializeDual(w io.Writer) error   { return u.cost.SerializeDual(w) }
func (u *UnarySimplex) DeserializeDual(r io.Reader) error { return u.cost.DeserializeDual(r) }
func (u *UnarySimplex) SerializePrimal(w io.Writer) error { return serializePrimal(w, u.primal) }
func (u *UnarySimplex) DeserializePrimal(r io.Reader) error {
	return deserializePrimal(r, u.primal)
}
