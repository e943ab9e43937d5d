package factor

import (
	"io"

	"github.com/dualbca/dualbca/costs"
	"github.com/dualbca/dualbca/unionfind"
)

// MulticutEdge is the cost of cutting a single edge: theta is the cost of
// cutting it, not-cutting is fixed at zero cost. Unlike the simplex-shaped
// factors, its single primal slot is a direct boolean (cut/not-cut), not a
// one-of-Size() selection, so it does not use decideOneOf/decidedIndex.
type MulticutEdge struct {
	theta  costs.Cost
	primal PrimalState
}

// NewMulticutEdge allocates a MulticutEdge with the given cut cost.
func NewMulticutEdge(theta costs.Cost) *MulticutEdge {
	return &MulticutEdge{theta: theta, primal: PrimalUnknown}
}

func (m *MulticutEdge) Kind() Kind { return KindMulticutEdge }
func (m *MulticutEdge) Size() int  { return 1 }

// Theta returns the current cut cost.
func (m *MulticutEdge) Theta() costs.Cost { return m.theta }

// Repam adds delta to the cut cost.
func (m *MulticutEdge) Repam(delta costs.Cost) { m.theta = costs.Normalize(m.theta + delta) }

func (m *MulticutEdge) LowerBound() costs.Cost {
	if m.theta < 0 {
		return m.theta
	}
	return 0
}

func (m *MulticutEdge) InitPrimal() { m.primal = PrimalUnknown }

// SetPrimal commits whether this edge is cut. A direct assignment, not
// decideOneOf: with Size()==1 there is no second index to represent the
// false outcome, so the shared one-hot helper cannot express this choice.
func (m *MulticutEdge) SetPrimal(cut bool) {
	if cut {
		m.primal = PrimalTrue
	} else {
		m.primal = PrimalFalse
	}
}

// GetPrimal returns whether this edge is decided cut.
func (m *MulticutEdge) GetPrimal() (cut bool, ok bool) {
	if m.primal == PrimalUnknown {
		return false, false
	}
	return m.primal == PrimalTrue, true
}

func (m *MulticutEdge) PrimalDecided() bool { return m.primal != PrimalUnknown }

// RoundGreedy commits whichever of cut/not-cut is cheaper.
func (m *MulticutEdge) RoundGreedy() bool {
	if m.PrimalDecided() {
		return false
	}
	m.SetPrimal(m.theta < 0)
	return true
}

func (m *MulticutEdge) EvaluatePrimal() costs.Cost {
	cut, ok := m.GetPrimal()
	if !ok {
		return costs.PosInf
	}
	if cut {
		return m.theta
	}
	return 0
}

// ConstructSATClauses emits nothing on its own: the edge variable's only
// constraints come from the triplets and the global consistency factor it
// participates in.
func (m *MulticutEdge) ConstructSATClauses(_, _ int) []SATClause { return nil }

func (m *MulticutEdge) SerializeDual(w io.Writer) error {
	vec := costs.NewVector(1)
	vec.Set(0, m.theta)
	return vec.SerializeDual(w)
}

func (m *MulticutEdge) DeserializeDual(r io.Reader) error {
	vec := costs.NewVector(1)
	if err := vec.DeserializeDual(r); err != nil {
		return err
	}
	m.theta = vec.At(0)
	return nil
}

func (m *MulticutEdge) SerializePrimal(w io.Writer) error {
	_, err := w.Write([]byte{byte(m.primal)})
	return err
}

func (m *MulticutEdge) DeserializePrimal(r io.Reader) error {
	buf := make([]byte, 1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	m.primal = PrimalState(buf[0])
	return nil
}

// tripletConfigs lists the four cut patterns over (edge12, edge13, edge23)
// consistent with the triangle inequality: an odd number of cut edges
// around a 3-cycle is infeasible, so only the even-parity patterns remain.
var tripletConfigs = [4][3]bool{
	{false, false, false},
	{false, true, true},
	{true, false, true},
	{true, true, false},
}

// MulticutTriplet couples three MulticutEdge factors sharing a triangle,
// forbidding the odd-cut configurations via its cost table's shape: it has
// exactly 4 entries, one per element of tripletConfigs.
type MulticutTriplet struct {
	cost   *costs.Vector
	primal []PrimalState
}

// NewMulticutTriplet allocates a MulticutTriplet, all-zero costs.
func NewMulticutTriplet() *MulticutTriplet {
	t := &MulticutTriplet{cost: costs.NewVector(4), primal: make([]PrimalState, 4)}
	t.InitPrimal()
	return t
}

func (t *MulticutTriplet) Kind() Kind { return KindMulticutTriplet }
func (t *MulticutTriplet) Size() int  { return 4 }

// Cost exposes the underlying 4-entry cost table for message operations.
func (t *MulticutTriplet) Cost() *costs.Vector { return t.cost }

func (t *MulticutTriplet) LowerBound() costs.Cost { return t.cost.Min() }

// MinMarginalEdge12 returns min_{configs with edge12==cut} cost(config).
func (t *MulticutTriplet) MinMarginalEdge12(cut bool) costs.Cost { return t.minMarginalEdge(0, cut) }

// MinMarginalEdge13 returns min_{configs with edge13==cut} cost(config).
func (t *MulticutTriplet) MinMarginalEdge13(cut bool) costs.Cost { return t.minMarginalEdge(1, cut) }

// MinMarginalEdge23 returns min_{configs with edge23==cut} cost(config).
func (t *MulticutTriplet) MinMarginalEdge23(cut bool) costs.Cost { return t.minMarginalEdge(2, cut) }

func (t *MulticutTriplet) minMarginalEdge(axis int, cut bool) costs.Cost {
	best := costs.PosInf
	for idx, cfg := range tripletConfigs {
		if cfg[axis] != cut {
			continue
		}
		v := t.cost.At(idx)
		if v < best {
			best = v
		}
	}
	return best
}

// MinMarginalEdge returns min_{configs with cfg[axis]==cut} cost(config),
// the axis-generic form of MinMarginalEdge12/13/23 used by
// message.MulticutEdgeTriplet, which is parametrized by axis rather than
// hard-coded to one of the three.
func (t *MulticutTriplet) MinMarginalEdge(axis TripletEdgeIndex, cut bool) costs.Cost {
	return t.minMarginalEdge(int(axis), cut)
}

// MinMarginalEdgeRestricted is MinMarginalEdge restricted to the rounding
// sub-pass: configs already ruled out by an earlier SetPrimalEdge call are
// treated as forbidden rather than folded into the reduction, mirroring
// PairwiseSimplex.MinMarginal1Restricted for this factor's 4-entry table.
func (t *MulticutTriplet) MinMarginalEdgeRestricted(axis TripletEdgeIndex, cut bool) costs.Cost {
	best := costs.PosInf
	for idx, cfg := range tripletConfigs {
		if cfg[axis] != cut || t.primal[idx] == PrimalFalse {
			continue
		}
		if v := t.cost.At(idx); v < best {
			best = v
		}
	}
	return best
}

// SetPrimalEdge narrows the primal to configs consistent with
// cfg[axis] == cut, leaving already-ruled-out entries alone so that the
// three independent edge messages' calls compose via promoteIfUnique —
// the 4-entry-table analogue of PairwiseSimplex.SetPrimalFirst/Second.
func (t *MulticutTriplet) SetPrimalEdge(axis TripletEdgeIndex, cut bool) {
	for idx := range t.primal {
		if t.primal[idx] == PrimalFalse {
			continue
		}
		if tripletConfigs[idx][axis] != cut {
			t.primal[idx] = PrimalFalse
		}
	}
	promoteIfUnique(t.primal)
}

// TripletConfig exposes tripletConfigs[idx] to package tighten's
// odd-wheel search, which needs to inspect a MulticutTriplet's cheapest
// configuration's per-axis cut pattern from outside the package.
func TripletConfig(idx int) [3]bool { return tripletConfigs[idx] }

// TripletEdgeIndex names the three edge axes of a MulticutTriplet.
type TripletEdgeIndex int

const (
	TripletEdge12 TripletEdgeIndex = 0
	TripletEdge13 TripletEdgeIndex = 1
	TripletEdge23 TripletEdgeIndex = 2
)

// RepamEdge adds delta into every config entry where the named edge axis
// takes the given cut value.
func (t *MulticutTriplet) RepamEdge(axis TripletEdgeIndex, cut bool, delta costs.Cost) {
	for idx, cfg := range tripletConfigs {
		if cfg[axis] == cut {
			t.cost.AddAt(idx, delta)
		}
	}
}

func (t *MulticutTriplet) configIndex(c12, c13, c23 bool) (int, bool) {
	for idx, cfg := range tripletConfigs {
		if cfg[0] == c12 && cfg[1] == c13 && cfg[2] == c23 {
			return idx, true
		}
	}
	return -1, false
}

func (t *MulticutTriplet) InitPrimal() { initPrimal(t.primal) }

// SetPrimal commits the joint cut pattern (c12, c13, c23); it must be one
// of the four even-parity configurations.
func (t *MulticutTriplet) SetPrimal(c12, c13, c23 bool) bool {
	idx, ok := t.configIndex(c12, c13, c23)
	if !ok {
		return false
	}
	decideOneOf(t.primal, idx)
	return true
}

// GetPrimal returns the decided joint cut pattern, if fully decided.
func (t *MulticutTriplet) GetPrimal() (c12, c13, c23 bool, ok bool) {
	idx, ok := decidedIndex(t.primal)
	if !ok {
		return false, false, false, false
	}
	cfg := tripletConfigs[idx]
	return cfg[0], cfg[1], cfg[2], true
}

func (t *MulticutTriplet) PrimalDecided() bool { return decided(t.primal) }

// RoundGreedy commits the cheapest of the four even-parity cut patterns
// not yet ruled out.
func (t *MulticutTriplet) RoundGreedy() bool {
	if t.PrimalDecided() {
		return false
	}
	idx := argmin(t.Size(), func(k int) costs.Cost {
		if t.primal[k] == PrimalFalse {
			return costs.PosInf
		}
		return t.cost.At(k)
	})
	cfg := tripletConfigs[idx]
	t.SetPrimal(cfg[0], cfg[1], cfg[2])
	return true
}

func (t *MulticutTriplet) EvaluatePrimal() costs.Cost {
	idx, ok := decidedIndex(t.primal)
	if !ok {
		return costs.PosInf
	}
	return t.cost.At(idx)
}

func (t *MulticutTriplet) ConstructSATClauses(leftVar, _ int) []SATClause {
	atLeastOne := SATClause{Vars: make([]int, 4), Negated: make([]bool, 4)}
	for i := 0; i < 4; i++ {
		atLeastOne.Vars[i] = leftVar + i
	}
	return []SATClause{atLeastOne}
}

func (t *MulticutTriplet) SerializeDual(w io.Writer) error   { return t.cost.SerializeDual(w) }
func (t *MulticutTriplet) DeserializeDual(r io.Reader) error { return t.cost.DeserializeDual(r) }
func (t *MulticutTriplet) SerializePrimal(w io.Writer) error { return serializePrimal(w, t.primal) }
func (t *MulticutTriplet) DeserializePrimal(r io.Reader) error {
	return deserializePrimal(r, t.primal)
}

// MulticutGlobal is the hard, cost-free factor enforcing cycle consistency
// across the whole multicut instance: cut edges must separate connected
// components, never leave a cut edge inside one. It carries no dual cost
// of its own; it only validates a fully-decided primal labeling.
type MulticutGlobal struct {
	numNodes int
	edges    [][2]int
	primal   []PrimalState
}

// NewMulticutGlobal allocates a global consistency factor over numNodes
// nodes and the given edge list (endpoint pairs).
func NewMulticutGlobal(numNodes int, edges [][2]int) *MulticutGlobal {
	g := &MulticutGlobal{numNodes: numNodes, edges: edges, primal: make([]PrimalState, len(edges))}
	g.InitPrimal()
	return g
}

func (g *MulticutGlobal) Kind() Kind { return KindMulticutGlobal }
func (g *MulticutGlobal) Size() int  { return len(g.edges) }

// Edges exposes the edge list backing each primal slot's index, the same
// order domain.Multicut used to build both this factor and its
// MulticutEdgeGlobal wiring, so a caller holding a node pair can look up
// which GetPrimalEdge index it corresponds to.
func (g *MulticutGlobal) Edges() [][2]int { return g.edges }

// LowerBound is always zero: this factor contributes no dual cost, only a
// hard feasibility constraint on the primal.
func (g *MulticutGlobal) LowerBound() costs.Cost { return 0 }

func (g *MulticutGlobal) InitPrimal() { initPrimal(g.primal) }

// SetPrimalEdge commits whether edge idx is cut. A direct per-edge boolean
// assignment: each edge is independently cut or not, so this is not a
// one-of-Size() selection either.
func (g *MulticutGlobal) SetPrimalEdge(idx int, cut bool) {
	if cut {
		g.primal[idx] = PrimalTrue
	} else {
		g.primal[idx] = PrimalFalse
	}
}

// GetPrimalEdge returns whether edge idx is decided cut.
func (g *MulticutGlobal) GetPrimalEdge(idx int) (cut bool, ok bool) {
	if g.primal[idx] == PrimalUnknown {
		return false, false
	}
	return g.primal[idx] == PrimalTrue, true
}

func (g *MulticutGlobal) PrimalDecided() bool { return decided(g.primal) }

// RoundGreedy commits the first still-unknown edge as kept (uncut): this
// factor carries no dual cost, so there is no cost-based tiebreak, and
// biasing toward keeping edges biases toward merging components, which
// EvaluatePrimal can then validate or reject. In the normal schedule every
// edge's own MulticutEdgeGlobal message already decides this factor's
// whole primal (domain.Multicut wires one per edge, visited before this
// factor in topological order), so this only fires as a fallback when some
// edge was left unwired.
func (g *MulticutGlobal) RoundGreedy() bool {
	for i, s := range g.primal {
		if s == PrimalUnknown {
			g.SetPrimalEdge(i, false)
			return true
		}
	}
	return false
}

// EvaluatePrimal returns 0 if the current edge cut/keep assignment induces
// a consistent partition (no cut edge joins two nodes left in the same
// component by the kept edges), or +Inf otherwise.
func (g *MulticutGlobal) EvaluatePrimal() costs.Cost {
	if !g.PrimalDecided() {
		return costs.PosInf
	}
	uf := unionfind.New(g.numNodes)
	for i, e := range g.edges {
		if g.primal[i] == PrimalFalse {
			uf.Merge(e[0], e[1])
		}
	}
	for i, e := range g.edges {
		if g.primal[i] == PrimalTrue && uf.Connected(e[0], e[1]) {
			return costs.PosInf
		}
	}
	return 0
}

// ConstructSATClauses emits nothing: full cycle-consistency constraints
// are enumerated by the tightening engine's cutting planes, not as a
// fixed clause set local to this factor.
func (g *MulticutGlobal) ConstructSATClauses(_, _ int) []SATClause { return nil }

func (g *MulticutGlobal) SerializeDual(_ io.Writer) error   { return nil }
func (g *MulticutGlobal) DeserializeDual(_ io.Reader) error { return nil }
func (g *MulticutGlobal) SerializePrimal(w io.Writer) error { return serializePrimal(w, g.primal) }
func (g *MulticutGlobal) DeserializePrimal(r io.Reader) error {
	return deserializePrimal(r, g.primal)
}
