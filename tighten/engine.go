// Package tighten implements spec.md §4.6's cutting-plane tightening
// engine: cycle tightening (bidirectional BFS over a residual graph of
// reparametrized edge costs, cycle normal form, triangulation) and
// odd-wheel tightening, plus the min-convolution primitive used by the
// discrete-tomography counting factors. Grounded on
// _examples/original_source/solvers/multicut/multicut_constructor.hxx for
// the cycle/odd-wheel search shape, and on the teacher's bfs.BFS
// (queue-based walker struct, functional hook options) and flow.Dinic
// (level-graph BFS over a residual capacity map is its closest analogue to
// a residual *cost* graph search).
package tighten

import (
	"sort"

	"github.com/dualbca/dualbca/bcaerr"
	"github.com/dualbca/dualbca/costs"
	"github.com/dualbca/dualbca/factor"
	"github.com/dualbca/dualbca/fmgraph"
	"github.com/dualbca/dualbca/message"
	"github.com/dualbca/dualbca/unionfind"
)

// Domain selects which pair of factor variants an Engine's cycle search
// instantiates triangles over: a binary pairwise MRF (unary/pairwise/
// triplet simplex factors, spec.md's S2 scenario) or a multicut instance
// (MulticutEdge/MulticutTriplet/OddWheel, S3/S4).
type Domain int

const (
	// DomainMRF tightens a binary-labeled pairwise Markov random field by
	// adding TripletSimplex factors over violated 3-cycles.
	DomainMRF Domain = iota
	// DomainMulticut tightens a multicut instance by adding
	// MulticutTriplet factors over violated 3-cycles and OddWheel factors
	// over violated odd cycles through a candidate center.
	DomainMulticut
)

// edgeKey is a canonical (min, max) node-index pair identifying one edge
// of the residual graph, independent of discovery order.
type edgeKey [2]int

func canon(u, v int) edgeKey {
	if u > v {
		u, v = v, u
	}
	return edgeKey{u, v}
}

// Engine is spec.md §4.6's tightening engine bound to one factor-message
// graph and one Domain. It owns the node-to-edge-factor index the domain
// constructors hand it at construction time (the graph itself has no
// notion of "variable" or "edge", only factor handles and messages), plus
// the scratch union-find used to prune disconnected BFS candidates.
type Engine struct {
	g          *fmgraph.Graph
	domain     Domain
	nodeCount  int
	labels     []int // DomainMRF only: labels[i] = number of labels of node i
	edgeFactor    map[edgeKey]int
	triangle      map[[3]int]bool
	tripletHandle map[[3]int]int
	tripletOrder  map[[3]int][3]int
	oddWheel      map[string]bool
	msgMode    message.Mode
	uf         *unionfind.UnionFind
}

// NewMRFEngine constructs a cycle-tightening engine over a binary pairwise
// Markov random field: nodeCount unary factors with the given per-node
// label counts, and edgeFactor mapping each existing pairwise coupling to
// its PairwiseSimplex factor handle.
func NewMRFEngine(g *fmgraph.Graph, labels []int, edgeFactor map[[2]int]int, msgMode message.Mode) *Engine {
	return newEngine(g, DomainMRF, len(labels), labels, edgeFactor, msgMode)
}

// NewMulticutEngine constructs a cycle/odd-wheel-tightening engine over a
// multicut instance: nodeCount nodes, edgeFactor mapping each existing
// edge to its MulticutEdge factor handle.
func NewMulticutEngine(g *fmgraph.Graph, nodeCount int, edgeFactor map[[2]int]int, msgMode message.Mode) *Engine {
	return newEngine(g, DomainMulticut, nodeCount, nil, edgeFactor, msgMode)
}

func newEngine(g *fmgraph.Graph, domain Domain, nodeCount int, labels []int, edgeFactor map[[2]int]int, msgMode message.Mode) *Engine {
	ef := make(map[edgeKey]int, len(edgeFactor))
	for k, h := range edgeFactor {
		ef[canon(k[0], k[1])] = h
	}
	return &Engine{
		g:             g,
		domain:        domain,
		nodeCount:     nodeCount,
		labels:        labels,
		edgeFactor:    ef,
		triangle:      make(map[[3]int]bool),
		tripletHandle: make(map[[3]int]int),
		tripletOrder:  make(map[[3]int][3]int),
		oddWheel:      make(map[string]bool),
		msgMode:       msgMode,
		uf:            unionfind.New(nodeCount),
	}
}

// edgeTheta returns the current reparametrized scalar cost of the edge
// between u and v, and whether that edge exists at all.
//
// DomainMulticut reads MulticutEdge.Theta() directly: it already is the
// scalar edge cost spec.md §4.6 describes. DomainMRF has no single scalar
// per edge in general (a pairwise factor's table has d1*d2 entries); the
// Ising-style scenario the spec grounds cycle tightening on (S2: +1 same,
// -1 differ) reduces to the binary case, so theta is taken as the
// "differ minus agree" asymmetry cost(1,0) - cost(0,0), which is exactly
// the quantity that drives S2's triplet gain and is zero whenever the
// factor has no preference between agreeing and differing.
func (e *Engine) edgeTheta(u, v int) (costs.Cost, bool) {
	h, ok := e.edgeFactor[canon(u, v)]
	if !ok {
		return 0, false
	}
	switch e.domain {
	case DomainMulticut:
		me := e.g.Factor(h).(*factor.MulticutEdge)
		return me.Theta(), true
	default:
		p := e.g.Factor(h).(*factor.PairwiseSimplex)
		return p.Cost().At(1, 0) - p.Cost().At(0, 0), true
	}
}

// neighbors returns every node adjacent to u via an existing edge.
func (e *Engine) neighbors(u int) []int {
	var out []int
	for k := range e.edgeFactor {
		if k[0] == u {
			out = append(out, k[1])
		} else if k[1] == u {
			out = append(out, k[0])
		}
	}
	sort.Ints(out)
	return out
}

// Tighten implements scheduler.Tightener: spec.md §4.6's
// tighten(min_dual_increase, max_constraints) -> n_added. It runs cycle
// tightening first (cheapest, applies to both domains), then, for
// DomainMulticut, odd-wheel tightening with whatever constraint budget
// remains.
func (e *Engine) Tighten(g *fmgraph.Graph, minDualIncrease float64, maxConstraints int) (int, error) {
	md := costs.Cost(minDualIncrease)
	added := e.tightenCycles(md, maxConstraints)
	if e.domain == DomainMulticut && (maxConstraints <= 0 || added < maxConstraints) {
		remaining := maxConstraints - added
		if maxConstraints <= 0 {
			remaining = 0
		}
		added += e.tightenOddWheels(md, remaining)
	}
	if added == 0 {
		return 0, bcaerr.New(bcaerr.TighteningNoProgress, "tighten: no violated inequality found with the requested minimum dual increase")
	}
	return added, nil
}
