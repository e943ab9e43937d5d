package factor

import (
	"io"

	"github.com/dualbca/dualbca/costs"
)

// TomographyCounting is a tightening-added cardinality factor over n binary
// variables, restored from original_source's discrete-tomography counting
// factor: feasible labelings are exactly those with targetSum ones. Like
// MulticutGlobal and MulticutEdge, its primal is a direct per-variable
// boolean, not a one-of-Size() joint selection — an n-bit cardinality
// constraint has no practical dense joint enumeration for large n.
type TomographyCounting struct {
	n         int
	targetSum int
	unary     *costs.Matrix // n x 2: unary[i][0]/[1] is the cost of var i being 0/1.
	primal    []PrimalState
}

// NewTomographyCounting allocates a counting factor over n binary
// variables constrained to sum exactly targetSum ones, all-zero costs.
func NewTomographyCounting(n, targetSum int) *TomographyCounting {
	t := &TomographyCounting{n: n, targetSum: targetSum, unary: costs.NewMatrix(n, 2), primal: make([]PrimalState, n)}
	t.InitPrimal()
	return t
}

func (t *TomographyCounting) Kind() Kind { return KindTomographyCounting }
func (t *TomographyCounting) Size() int  { return t.n }

// TargetSum returns the required count of ones.
func (t *TomographyCounting) TargetSum() int { return t.targetSum }

// Unary exposes the n x 2 per-variable cost table for message operations.
func (t *TomographyCounting) Unary() *costs.Matrix { return t.unary }

// RepamVar adds (delta0, delta1) into variable i's off/on costs.
func (t *TomographyCounting) RepamVar(i int, delta0, delta1 costs.Cost) {
	t.unary.AddAt(i, 0, delta0)
	t.unary.AddAt(i, 1, delta1)
}

// LowerBound computes the minimum total cost over all labelings with
// exactly targetSum ones, by chaining MinConvolve across the n variables:
// each variable contributes a length-2 cost vector indexed by how many
// ones it adds (0 or 1), and the running accumulator is the cost
// distribution over partial counts, exactly the "combine sums over
// subtrees" min-convolution use case.
func (t *TomographyCounting) LowerBound() costs.Cost {
	if t.targetSum < 0 || t.targetSum > t.n {
		return costs.PosInf
	}
	acc := []costs.Cost{t.unary.At(0, 0), t.unary.At(0, 1)}
	for i := 1; i < t.n; i++ {
		next := []costs.Cost{t.unary.At(i, 0), t.unary.At(i, 1)}
		res := costs.MinConvolve(acc, next, false)
		acc = res.Values
	}
	if t.targetSum >= len(acc) {
		return costs.PosInf
	}
	return acc[t.targetSum]
}

// GlobalMinCost returns the unconstrained minimum total cost (ignoring the
// cardinality constraint), using MinConvolve's onlyMin fast path on the
// final combining step: a cheaper bound-only query than reconstructing the
// whole count distribution, for callers that don't need a specific count.
func (t *TomographyCounting) GlobalMinCost() costs.Cost {
	if t.n == 0 {
		return costs.PosInf
	}
	if t.n == 1 {
		c0, c1 := t.unary.At(0, 0), t.unary.At(0, 1)
		if c0 < c1 {
			return c0
		}
		return c1
	}
	acc := []costs.Cost{t.unary.At(0, 0), t.unary.At(0, 1)}
	for i := 1; i < t.n-1; i++ {
		next := []costs.Cost{t.unary.At(i, 0), t.unary.At(i, 1)}
		res := costs.MinConvolve(acc, next, false)
		acc = res.Values
	}
	last := []costs.Cost{t.unary.At(t.n-1, 0), t.unary.At(t.n-1, 1)}
	return costs.MinConvolve(acc, last, true).GlobalMin
}

// MinMarginalVar returns (mm0, mm1): the minimum total cost over every
// feasible labeling with variable i fixed to 0, and fixed to 1
// respectively. Computed by min-convolving every other variable's 2-entry
// cost vector into one running distribution over partial counts (the
// same "combine sums over subtrees" primitive LowerBound uses, just with
// variable i excluded from the chain rather than included), then reading
// off the entry consistent with the cardinality target once var i's own
// contribution is added back.
func (t *TomographyCounting) MinMarginalVar(i int) (mm0, mm1 costs.Cost) {
	acc := []costs.Cost{0}
	for j := 0; j < t.n; j++ {
		if j == i {
			continue
		}
		next := []costs.Cost{t.unary.At(j, 0), t.unary.At(j, 1)}
		acc = costs.MinConvolve(acc, next, false).Values
	}
	c0, c1 := t.unary.At(i, 0), t.unary.At(i, 1)
	mm0, mm1 = costs.PosInf, costs.PosInf
	if t.targetSum >= 0 && t.targetSum < len(acc) {
		mm0 = acc[t.targetSum] + c0
	}
	if rem := t.targetSum - 1; rem >= 0 && rem < len(acc) {
		mm1 = acc[rem] + c1
	}
	return mm0, mm1
}

// MinMarginalVarRestricted is MinMarginalVar restricted to the rounding
// sub-pass: every other variable j already decided (primal[j] != Unknown)
// contributes only its decided state's cost to the running convolution
// instead of the free min(cost0, cost1) choice, so the result reflects only
// labelings consistent with what has already been committed. This is the
// counting factor's equivalent of PairwiseSimplex.MinMarginal1Restricted:
// there is no dense joint table to mask entries out of, so restriction is
// expressed per excluded variable instead of per joint index.
func (t *TomographyCounting) MinMarginalVarRestricted(i int) (mm0, mm1 costs.Cost) {
	acc := []costs.Cost{0}
	for j := 0; j < t.n; j++ {
		if j == i {
			continue
		}
		c0, c1 := t.unary.At(j, 0), t.unary.At(j, 1)
		next := []costs.Cost{c0, c1}
		switch t.primal[j] {
		case PrimalTrue:
			next = []costs.Cost{costs.PosInf, c1}
		case PrimalFalse:
			next = []costs.Cost{c0, costs.PosInf}
		}
		acc = costs.MinConvolve(acc, next, false).Values
	}
	c0, c1 := t.unary.At(i, 0), t.unary.At(i, 1)
	mm0, mm1 = costs.PosInf, costs.PosInf
	if t.targetSum >= 0 && t.targetSum < len(acc) {
		mm0 = acc[t.targetSum] + c0
	}
	if rem := t.targetSum - 1; rem >= 0 && rem < len(acc) {
		mm1 = acc[rem] + c1
	}
	return mm0, mm1
}

func (t *TomographyCounting) InitPrimal() { initPrimal(t.primal) }

// SetPrimalVar commits whether variable i is on. Direct per-variable
// assignment, not decideOneOf: each variable is independently 0 or 1.
func (t *TomographyCounting) SetPrimalVar(i int, on bool) {
	if on {
		t.primal[i] = PrimalTrue
	} else {
		t.primal[i] = PrimalFalse
	}
}

// GetPrimalVar returns whether variable i is decided on.
func (t *TomographyCounting) GetPrimalVar(i int) (on bool, ok bool) {
	if t.primal[i] == PrimalUnknown {
		return false, false
	}
	return t.primal[i] == PrimalTrue, true
}

func (t *TomographyCounting) PrimalDecided() bool { return decided(t.primal) }

// PropagatePrimal forces the single remaining unknown variable to the
// unique value consistent with the cardinality constraint, if exactly one
// remains unknown. Reports whether it changed anything.
func (t *TomographyCounting) PropagatePrimal() bool {
	unknownIdx := -1
	unknownCount := 0
	decidedSum := 0
	for i, s := range t.primal {
		switch s {
		case PrimalUnknown:
			unknownCount++
			unknownIdx = i
		case PrimalTrue:
			decidedSum++
		}
	}
	if unknownCount != 1 {
		return false
	}
	remaining := t.targetSum - decidedSum
	t.primal[unknownIdx] = PrimalFalse
	if remaining == 1 {
		t.primal[unknownIdx] = PrimalTrue
	}
	return true
}

// RoundGreedy forces the last variable via PropagatePrimal when the
// cardinality constraint already pins it, else commits the cheaper of
// costs 0/1 for the first still-unknown variable.
func (t *TomographyCounting) RoundGreedy() bool {
	if t.PrimalDecided() {
		return false
	}
	if t.PropagatePrimal() {
		return true
	}
	for i, s := range t.primal {
		if s == PrimalUnknown {
			t.SetPrimalVar(i, t.unary.At(i, 1) < t.unary.At(i, 0))
			return true
		}
	}
	return false
}

func (t *TomographyCounting) EvaluatePrimal() costs.Cost {
	if !t.PrimalDecided() {
		return costs.PosInf
	}
	sum := 0
	var total costs.Cost
	for i, s := range t.primal {
		if s == PrimalTrue {
			sum++
			total += t.unary.At(i, 1)
		} else {
			total += t.unary.At(i, 0)
		}
	}
	if sum != t.targetSum {
		return costs.PosInf
	}
	return total
}

// ConstructSATClauses emits nothing: an exact cardinality-sum encoding
// (e.g. commander or sequential-counter encoding) is outside the scope of
// this factor; the tightening engine's own constraints carry the
// cardinality requirement into rounding instead.
func (t *TomographyCounting) ConstructSATClauses(_, _ int) []SATClause { return nil }

func (t *TomographyCounting) SerializeDual(w io.Writer) error   { return t.unary.SerializeDual(w) }
func (t *TomographyCounting) DeserializeDual(r io.Reader) error { return t.unary.DeserializeDual(r) }
func (t *TomographyCounting) SerializePrimal(w io.Writer) error { return serializePrimal(w, t.primal) }
func (t *TomographyCounting) DeserializePrimal(r io.Reader) error {
	return deserializePrimal(r, t.primal)
}
