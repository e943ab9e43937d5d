package factor

import (
	"io"

	"github.com/dualbca/dualbca/costs"
)

// PairwiseSimplex is a d1 x d2 table of costs coupling two variables.
type PairwiseSimplex struct {
	cost   *costs.Matrix
	primal []PrimalState
}

// NewPairwiseSimplex allocates a d1 x d2 PairwiseSimplex, all-zero costs.
func NewPairwiseSimplex(d1, d2 int) *PairwiseSimplex {
	p := &PairwiseSimplex{cost: costs.NewMatrix(d1, d2), primal: make([]PrimalState, d1*d2)}
	p.InitPrimal()
	return p
}

func (p *PairwiseSimplex) Kind() Kind { return KindPairwiseSimplex }
func (p *PairwiseSimplex) Size() int  { return len(p.primal) }

// Dims returns (d1, d2).
func (p *PairwiseSimplex) Dims() (int, int) { return p.cost.Dims() }

// Cost exposes the underlying cost table for message operations.
func (p *PairwiseSimplex) Cost() *costs.Matrix { return p.cost }

func (p *PairwiseSimplex) LowerBound() costs.Cost { return p.cost.Min() }

// MinMarginal1 fills out[i] = min_j cost[i][j]: the min-marginal along the
// first variable's axis (msg1 in the source's naming).
func (p *PairwiseSimplex) MinMarginal1(out *costs.Vector) { p.cost.Min1(out) }

// MinMarginal2 fills out[j] = min_i cost[i][j]: the min-marginal along the
// second variable's axis (msg2 in the source's naming).
func (p *PairwiseSimplex) MinMarginal2(out *costs.Vector) { p.cost.Min2(out) }

// MinMarginal1Restricted is MinMarginal1 restricted to the rounding
// sub-pass: entries already ruled out (PrimalFalse) by an earlier
// SetPrimalFirst/SetPrimalSecond call are treated as forbidden rather than
// folded into the reduction, so a row with no live entries left reports
// +Inf. Grounded on
// _examples/original_source/include/messages/simplex_marginalization_message.hxx's
// UnaryPairwiseMessageLeft::ReceiveRestrictedMessageFromRight, which fixes
// the already-decided column and reduces only over that column; restricting
// to primal != PrimalFalse is the equivalent statement in terms of this
// package's shared primal array, since SetPrimalSecond already marks every
// other column False.
func (p *PairwiseSimplex) MinMarginal1Restricted(out *costs.Vector) {
	d1, d2 := p.cost.Dims()
	for i := 0; i < d1; i++ {
		best := costs.PosInf
		for j := 0; j < d2; j++ {
			if p.primal[p.flatten(i, j)] == PrimalFalse {
				continue
			}
			if c := p.cost.At(i, j); c < best {
				best = c
			}
		}
		out.Set(i, best)
	}
}

// MinMarginal2Restricted is the column-wise mirror of MinMarginal1Restricted.
func (p *PairwiseSimplex) MinMarginal2Restricted(out *costs.Vector) {
	d1, d2 := p.cost.Dims()
	for j := 0; j < d2; j++ {
		best := costs.PosInf
		for i := 0; i < d1; i++ {
			if p.primal[p.flatten(i, j)] == PrimalFalse {
				continue
			}
			if c := p.cost.At(i, j); c < best {
				best = c
			}
		}
		out.Set(j, best)
	}
}

// RepamRow adds delta[j] into every cost[i][j] for fixed row i.
func (p *PairwiseSimplex) RepamRow(i int, delta *costs.Vector) { p.cost.AddRow(i, delta) }

// RepamCol adds delta[i] into every cost[i][j] for fixed column j.
func (p *PairwiseSimplex) RepamCol(j int, delta *costs.Vector) { p.cost.AddCol(j, delta) }

// RepamFull adds delta elementwise into the whole cost table — the
// pairwise<->triplet message's full-table repam, as opposed to the
// broadcast repam a unary message applies.
func (p *PairwiseSimplex) RepamFull(delta *costs.Matrix) { p.cost.AddMatrix(delta) }

func (p *PairwiseSimplex) flatten(i, j int) int {
	_, d2 := p.cost.Dims()
	return i*d2 + j
}

func (p *PairwiseSimplex) unflatten(idx int) (int, int) {
	_, d2 := p.cost.Dims()
	return idx / d2, idx % d2
}

func (p *PairwiseSimplex) InitPrimal() { initPrimal(p.primal) }

// SetPrimal commits the joint label (i, j) as the decided assignment.
func (p *PairwiseSimplex) SetPrimal(i, j int) { decideOneOf(p.primal, p.flatten(i, j)) }

// SetPrimalFirst commits only the first variable's label, ruling out
// every entry outside row i while leaving already-ruled-out entries
// alone — used by UnaryPairwiseLeft's primal projection, which decides
// only one of the two coupled variables. If UnaryPairwiseRight's
// SetPrimalSecond has already run, this can reveal a unique surviving
// entry, which is then promoted to the decided label.
func (p *PairwiseSimplex) SetPrimalFirst(i int) {
	for idx := range p.primal {
		if p.primal[idx] == PrimalFalse {
			continue
		}
		row, _ := p.unflatten(idx)
		if row != i {
			p.primal[idx] = PrimalFalse
		}
	}
	promoteIfUnique(p.primal)
}

// SetPrimalSecond commits only the second variable's label — the mirror
// of SetPrimalFirst for UnaryPairwiseRight.
func (p *PairwiseSimplex) SetPrimalSecond(j int) {
	for idx := range p.primal {
		if p.primal[idx] == PrimalFalse {
			continue
		}
		_, col := p.unflatten(idx)
		if col != j {
			p.primal[idx] = PrimalFalse
		}
	}
	promoteIfUnique(p.primal)
}

// GetPrimal returns the decided joint label (i, j), if fully decided.
func (p *PairwiseSimplex) GetPrimal() (i, j int, ok bool) {
	idx, ok := decidedIndex(p.primal)
	if !ok {
		return -1, -1, false
	}
	i, j = p.unflatten(idx)
	return i, j, true
}

func (p *PairwiseSimplex) PrimalDecided() bool { return decided(p.primal) }

// RoundGreedy commits the cheapest joint (i, j) label not yet ruled out.
func (p *PairwiseSimplex) RoundGreedy() bool {
	if p.PrimalDecided() {
		return false
	}
	idx := argmin(p.Size(), func(k int) costs.Cost {
		if p.primal[k] == PrimalFalse {
			return costs.PosInf
		}
		i, j := p.unflatten(k)
		return p.cost.At(i, j)
	})
	i, j := p.unflatten(idx)
	p.SetPrimal(i, j)
	return true
}

func (p *PairwiseSimplex) EvaluatePrimal() costs.Cost {
	i, j, ok := p.GetPrimal()
	if !ok {
		return costs.PosInf
	}
	return p.cost.At(i, j)
}

func (p *PairwiseSimplex) ConstructSATClauses(leftVar, _ int) []SATClause {
	n := p.Size()
	clauses := make([]SATClause, 0, 1)
	atLeastOne := SATClause{Vars: make([]int, n), Negated: make([]bool, n)}
	for i := 0; i < n; i++ {
		atLeastOne.Vars[i] = leftVar + i
	}
	clauses = append(clauses, atLeastOne)
	return clauses
}

func (p *PairwiseSimplex) SerializeDual(w io.Writer) error   { return p.cost.SerializeDual(w) }
func (p *PairwiseSimplex) DeserializeDual(r io.Reader) error { return p.cost.DeserializeDual(r) }
func (p *PairwiseSimplex) SerializePrimal(w io.Writer) error { return serializePrimal(w, p.primal) }
func (p *PairwiseSimplex) DeserializePrimal(r io.Reader) error {
	return deserializePrimal(r, p.primal)
}
