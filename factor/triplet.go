package factor

import (
	"io"

	"github.com/dualbca/dualbca/costs"
)

// TripletSimplex is a d1 x d2 x d3 table of costs coupling three variables,
// pairwise-marginalized along each of the three axis pairs (msg12, msg13,
// msg23 in the source's naming).
type TripletSimplex struct {
	cost   *costs.Tensor3
	primal []PrimalState
}

// NewTripletSimplex allocates a d1 x d2 x d3 TripletSimplex, all-zero costs.
func NewTripletSimplex(d1, d2, d3 int) *TripletSimplex {
	t := &TripletSimplex{cost: costs.NewTensor3(d1, d2, d3), primal: make([]PrimalState, d1*d2*d3)}
	t.InitPrimal()
	return t
}

func (t *TripletSimplex) Kind() Kind { return KindTripletSimplex }
func (t *TripletSimplex) Size() int  { return len(t.primal) }

// Dims returns (d1, d2, d3).
func (t *TripletSimplex) Dims() (int, int, int) { return t.cost.Dims() }

// Cost exposes the underlying cost table for message operations.
func (t *TripletSimplex) Cost() *costs.Tensor3 { return t.cost }

func (t *TripletSimplex) LowerBound() costs.Cost { return t.cost.Min() }

// MinMarginal12 fills out[i][j] = min_k cost[i][j][k]: the marginal onto
// the (var1, var2) pair, matched against a PairwiseSimplex between 1 and 2.
func (t *TripletSimplex) MinMarginal12(out *costs.Matrix) { t.cost.MinMarginal12(out) }

// MinMarginal13 fills out[i][k] = min_j cost[i][j][k].
func (t *TripletSimplex) MinMarginal13(out *costs.Matrix) { t.cost.MinMarginal13(out) }

// MinMarginal23 fills out[j][k] = min_i cost[i][j][k].
func (t *TripletSimplex) MinMarginal23(out *costs.Matrix) { t.cost.MinMarginal23(out) }

// Repam12 adds delta[i][j] into every cost[i][j][k].
func (t *TripletSimplex) Repam12(delta *costs.Matrix) { t.cost.AddMatrix12(delta) }

// Repam13 adds delta[i][k] into every cost[i][j][k].
func (t *TripletSimplex) Repam13(delta *costs.Matrix) { t.cost.AddMatrix13(delta) }

// Repam23 adds delta[j][k] into every cost[i][j][k].
func (t *TripletSimplex) Repam23(delta *costs.Matrix) { t.cost.AddMatrix23(delta) }

func (t *TripletSimplex) flatten(i, j, k int) int {
	_, d2, d3 := t.cost.Dims()
	return (i*d2+j)*d3 + k
}

func (t *TripletSimplex) unflatten(idx int) (int, int, int) {
	_, d2, d3 := t.cost.Dims()
	k := idx % d3
	idx /= d3
	j := idx % d2
	i := idx / d2
	return i, j, k
}

// SetPrimal12 commits only the (i, j) pair along axes 1,2 — the
// triplet-side projection of a pairwise-triplet message's primal
// propagation, mirroring PairwiseSimplex.SetPrimalFirst/Second. Entries
// already ruled out by an earlier SetPrimal1X/2X call are left alone, so
// once all three axis-pair messages have fired, the unique surviving
// entry is promoted to the decided label.
func (t *TripletSimplex) SetPrimal12(i, j int) {
	for idx := range t.primal {
		if t.primal[idx] == PrimalFalse {
			continue
		}
		ii, jj, _ := t.unflatten(idx)
		if ii != i || jj != j {
			t.primal[idx] = PrimalFalse
		}
	}
	promoteIfUnique(t.primal)
}

// SetPrimal13 commits only the (i, k) pair along axes 1,3.
func (t *TripletSimplex) SetPrimal13(i, k int) {
	for idx := range t.primal {
		if t.primal[idx] == PrimalFalse {
			continue
		}
		ii, _, kk := t.unflatten(idx)
		if ii != i || kk != k {
			t.primal[idx] = PrimalFalse
		}
	}
	promoteIfUnique(t.primal)
}

// SetPrimal23 commits only the (j, k) pair along axes 2,3.
func (t *TripletSimplex) SetPrimal23(j, k int) {
	for idx := range t.primal {
		if t.primal[idx] == PrimalFalse {
			continue
		}
		_, jj, kk := t.unflatten(idx)
		if jj != j || kk != k {
			t.primal[idx] = PrimalFalse
		}
	}
	promoteIfUnique(t.primal)
}

func (t *TripletSimplex) InitPrimal() { initPrimal(t.primal) }

// SetPrimal commits the joint label (i, j, k) as the decided assignment.
func (t *TripletSimplex) SetPrimal(i, j, k int) { decideOneOf(t.primal, t.flatten(i, j, k)) }

// GetPrimal returns the decided joint label (i, j, k), if fully decided.
func (t *TripletSimplex) GetPrimal() (i, j, k int, ok bool) {
	idx, ok := decidedIndex(t.primal)
	if !ok {
		return -1, -1, -1, false
	}
	i, j, k = t.unflatten(idx)
	return i, j, k, true
}

func (t *TripletSimplex) PrimalDecided() bool { return decided(t.primal) }

// RoundGreedy commits the cheapest joint (i, j, k) label not yet ruled out.
func (t *TripletSimplex) RoundGreedy() bool {
	if t.PrimalDecided() {
		return false
	}
	idx := argmin(t.Size(), func(f int) costs.Cost {
		if t.primal[f] == PrimalFalse {
			return costs.PosInf
		}
		i, j, k := t.unflatten(f)
		return t.cost.At(i, j, k)
	})
	i, j, k := t.unflatten(idx)
	t.SetPrimal(i, j, k)
	return true
}

func (t *TripletSimplex) EvaluatePrimal() costs.Cost {
	i, j, k, ok := t.GetPrimal()
	if !ok {
		return costs.PosInf
	}
	return t.cost.At(i, j, k)
}

func (t *TripletSimplex) ConstructSATClauses(leftVar, _ int) []SATClause {
	n := t.Size()
	atLeastOne := SATClause{Vars: make([]int, n), Negated: make([]bool, n)}
	for i := 0; i < n; i++ {
		atLeastOne.Vars[i] = leftVar + i
	}
	return []SATClause{atLeastOne}
}

func (t *TripletSimplex) SerializeDual(w io.Writer) error   { return t.cost.SerializeDual(w) }
func (t *TripletSimplex) DeserializeDual(r io.Reader) error { return t.cost.DeserializeDual(r) }
func (t *TripletSimplex) SerializePrimal(w io.Writer) error { return serializePrimal(w, t.primal) }
func (t *TripletSimplex) DeserializePrimal(r io.Reader) error {
	return deserializePrimal(r, t.primal)
}
