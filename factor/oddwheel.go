package factor

import (
	"io"

	"github.com/dualbca/dualbca/costs"
)

// OddWheel is a tightening-added factor over the rim variables of an odd
// cycle found through a wheel center: numRim binary variables, each in
// opposition to the center, tabulated over all 2^numRim joint states. Rim
// count is expected to stay small (tightening only instantiates odd-wheel
// factors for short violated cycles), so the dense table is practical.
type OddWheel struct {
	numRim int
	cost   *costs.Vector
	primal []PrimalState
}

// NewOddWheel allocates an odd-wheel factor over numRim binary rim
// variables, all-zero costs.
func NewOddWheel(numRim int) *OddWheel {
	states := 1 << uint(numRim)
	w := &OddWheel{numRim: numRim, cost: costs.NewVector(states), primal: make([]PrimalState, states)}
	w.InitPrimal()
	return w
}

func (w *OddWheel) Kind() Kind { return KindOddWheel }
func (w *OddWheel) Size() int  { return len(w.primal) }

// NumRim returns the number of rim variables.
func (w *OddWheel) NumRim() int { return w.numRim }

// Cost exposes the underlying 2^numRim-entry cost table for message
// operations.
func (w *OddWheel) Cost() *costs.Vector { return w.cost }

func (w *OddWheel) LowerBound() costs.Cost { return w.cost.Min() }

func bitOf(state, varIdx int) bool { return state&(1<<uint(varIdx)) != 0 }

func stateOf(bits []bool) int {
	s := 0
	for i, b := range bits {
		if b {
			s |= 1 << uint(i)
		}
	}
	return s
}

// MinMarginalVar returns min_{states with rim variable varIdx == bit}
// cost(state): the marginal passed to/from the triplet factor owning that
// rim variable.
func (w *OddWheel) MinMarginalVar(varIdx int, bit bool) costs.Cost {
	best := costs.PosInf
	for state := 0; state < w.cost.Size(); state++ {
		if bitOf(state, varIdx) != bit {
			continue
		}
		if c := w.cost.At(state); c < best {
			best = c
		}
	}
	return best
}

// MinMarginalVarRestricted is MinMarginalVar restricted to the rounding
// sub-pass: states already ruled out by an earlier SetPrimalVar call are
// treated as forbidden rather than folded into the reduction, mirroring
// PairwiseSimplex.MinMarginal1Restricted for this factor's dense table.
func (w *OddWheel) MinMarginalVarRestricted(varIdx int, bit bool) costs.Cost {
	best := costs.PosInf
	for state := 0; state < w.cost.Size(); state++ {
		if bitOf(state, varIdx) != bit || w.primal[state] == PrimalFalse {
			continue
		}
		if c := w.cost.At(state); c < best {
			best = c
		}
	}
	return best
}

// RepamVar adds delta into every state entry where rim variable varIdx
// takes the given bit value.
func (w *OddWheel) RepamVar(varIdx int, bit bool, delta costs.Cost) {
	for state := 0; state < w.cost.Size(); state++ {
		if bitOf(state, varIdx) == bit {
			w.cost.AddAt(state, delta)
		}
	}
}

func (w *OddWheel) InitPrimal() { initPrimal(w.primal) }

// SetPrimalVar narrows the primal to states consistent with rim variable
// varIdx == bit, leaving already-ruled-out states alone so that the
// numRim independent spoke messages' calls compose via promoteIfUnique,
// mirroring PairwiseSimplex.SetPrimalFirst/Second.
func (w *OddWheel) SetPrimalVar(varIdx int, bit bool) {
	for state := range w.primal {
		if w.primal[state] == PrimalFalse {
			continue
		}
		if bitOf(state, varIdx) != bit {
			w.primal[state] = PrimalFalse
		}
	}
	promoteIfUnique(w.primal)
}

// SetPrimal commits the joint rim assignment as the decided state.
func (w *OddWheel) SetPrimal(bits []bool) { decideOneOf(w.primal, stateOf(bits)) }

// GetPrimal returns the decided joint rim assignment, if fully decided.
func (w *OddWheel) GetPrimal() (bits []bool, ok bool) {
	idx, ok := decidedIndex(w.primal)
	if !ok {
		return nil, false
	}
	bits = make([]bool, w.numRim)
	for i := range bits {
		bits[i] = bitOf(idx, i)
	}
	return bits, true
}

func (w *OddWheel) PrimalDecided() bool { return decided(w.primal) }

// RoundGreedy commits the cheapest joint rim state not yet ruled out.
func (w *OddWheel) RoundGreedy() bool {
	if w.PrimalDecided() {
		return false
	}
	idx := argmin(w.Size(), func(k int) costs.Cost {
		if w.primal[k] == PrimalFalse {
			return costs.PosInf
		}
		return w.cost.At(k)
	})
	bits := make([]bool, w.numRim)
	for v := 0; v < w.numRim; v++ {
		bits[v] = bitOf(idx, v)
	}
	w.SetPrimal(bits)
	return true
}

func (w *OddWheel) EvaluatePrimal() costs.Cost {
	idx, ok := decidedIndex(w.primal)
	if !ok {
		return costs.PosInf
	}
	return w.cost.At(idx)
}

func (w *OddWheel) ConstructSATClauses(leftVar, _ int) []SATClause {
	n := w.Size()
	atLeastOne := SATClause{Vars: make([]int, n), Negated: make([]bool, n)}
	for i := 0; i < n; i++ {
		atLeastOne.Vars[i] = leftVar + i
	}
	return []SATClause{atLeastOne}
}

func (w *OddWheel) SerializeDual(wr io.Writer) error  { return w.cost.SerializeDual(wr) }
func (w *OddWheel) DeserializeDual(r io.Reader) error { return w.cost.DeserializeDual(r) }
func (w *OddWheel) SerializePrimal(wr io.Writer) error {
	return serializePrimal(wr, w.primal)
}
func (w *OddWheel) DeserializePrimal(r io.Reader) error {
	return deserializePrimal(r, w.primal)
}
