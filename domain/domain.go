// Package domain provides minimal, spec-faithful factor-message graph
// constructors for the three domains spec.md's testable scenarios exercise:
// a pairwise Ising-style Markov random field (S1/S2), a multicut instance
// over a node set (S3/S4), and a discrete-tomography sum-constrained
// binary chain (S5). Domain *choice* is out of the CORE's scope (spec.md
// §1): these constructors exist only so the CORE has at least one concrete
// domain to exercise end-to-end in tests and the demo command, the same
// role graph_matching/multicut/discrete_tomography play as sibling solvers
// over the original engine's CORE.
package domain

import (
	"fmt"

	"github.com/dualbca/dualbca/costs"
	"github.com/dualbca/dualbca/factor"
	"github.com/dualbca/dualbca/fmgraph"
	"github.com/dualbca/dualbca/message"
)

func canonEdge(u, v int) [2]int {
	if u > v {
		u, v = v, u
	}
	return [2]int{u, v}
}

// Ising builds an n-variable, 2-label pairwise Markov random field:
// unary[i] = (cost of label 0, cost of label 1) for variable i, and
// pairwise[{i,j}] = c gives edge (i,j) the Ising table spec.md §8's S2
// scenario describes literally ("+1 on equal, -1 on differ" when c=1):
// cost(equal) = +c, cost(differ) = -c. Returns the finalized graph plus
// the edge-factor handle map tighten.NewMRFEngine needs to tighten it —
// a refinement over the handle-less signature this package's design
// notes originally sketched, recorded as an open-question resolution in
// DESIGN.md, since a caller cannot wire a tightening engine without
// knowing which factor handle backs which node pair.
func Ising(n int, unary [][2]costs.Cost, pairwise map[[2]int]costs.Cost) (*fmgraph.Graph, map[[2]int]int, error) {
	if len(unary) != n {
		return nil, nil, fmt.Errorf("domain: Ising wants %d unary entries, got %d", n, len(unary))
	}
	g := fmgraph.New()
	unaryHandle := make([]int, n)
	for i := 0; i < n; i++ {
		u := factor.NewUnarySimplex(2)
		u.Cost().Set(0, unary[i][0])
		u.Cost().Set(1, unary[i][1])
		unaryHandle[i] = g.AddFactor(u)
	}

	edgeFactor := make(map[[2]int]int, len(pairwise))
	for edge, c := range pairwise {
		i, j := edge[0], edge[1]
		if i < 0 || i >= n || j < 0 || j >= n || i == j {
			return nil, nil, fmt.Errorf("domain: Ising pairwise edge %v out of range for n=%d", edge, n)
		}
		p := factor.NewPairwiseSimplex(2, 2)
		p.Cost().Set(0, 0, c)
		p.Cost().Set(1, 1, c)
		p.Cost().Set(0, 1, -c)
		p.Cost().Set(1, 0, -c)
		ph := g.AddFactor(p)

		g.AddMessage(message.NewUnaryPairwiseLeft(message.SRMP), unaryHandle[i], ph, message.KindUnaryPairwiseLeft)
		g.AddMessage(message.NewUnaryPairwiseRight(message.SRMP), unaryHandle[j], ph, message.KindUnaryPairwiseRight)

		edgeFactor[canonEdge(i, j)] = ph
	}

	if err := g.Finalize(); err != nil {
		return nil, nil, fmt.Errorf("domain: Ising: %w", err)
	}
	return g, edgeFactor, nil
}

// Multicut builds a multicut instance over nodes nodes: one MulticutEdge
// factor per entry of edgeCost, plus a MulticutGlobal factor enforcing
// cycle consistency across the whole edge set, wired to every edge via a
// MulticutEdgeGlobal message so the rounding sub-pass propagates each
// edge's real decided cut into MulticutGlobal's primal rather than leaving
// it to decide independently. Returns the finalized graph plus the
// edge-factor handle map tighten.NewMulticutEngine needs, for the same
// reason Ising does.
func Multicut(nodes int, edgeCost map[[2]int]costs.Cost) (*fmgraph.Graph, map[[2]int]int, error) {
	g := fmgraph.New()
	edgeFactor := make(map[[2]int]int, len(edgeCost))
	edgeList := make([][2]int, 0, len(edgeCost))
	for edge, theta := range edgeCost {
		i, j := edge[0], edge[1]
		if i < 0 || i >= nodes || j < 0 || j >= nodes || i == j {
			return nil, nil, fmt.Errorf("domain: Multicut edge %v out of range for nodes=%d", edge, nodes)
		}
		h := g.AddFactor(factor.NewMulticutEdge(theta))
		key := canonEdge(i, j)
		edgeFactor[key] = h
		edgeList = append(edgeList, key)
	}
	globalHandle := g.AddFactor(factor.NewMulticutGlobal(nodes, edgeList))
	for idx, key := range edgeList {
		g.AddMessage(message.NewMulticutEdgeGlobal(message.SRMP, idx), edgeFactor[key], globalHandle, message.KindMulticutEdgeGlobal)
	}

	if err := g.Finalize(); err != nil {
		return nil, nil, fmt.Errorf("domain: Multicut: %w", err)
	}
	return g, edgeFactor, nil
}

// TomographyChain builds spec.md §8's S5 scenario: n binary variables
// (unary[i] = cost of 0/1) constrained by a single shared
// TomographyCounting factor to sum exactly to sum ones, restored from
// _examples/original_source/solvers/discrete_tomography/discrete_tomography_tree_constructor.hxx
// (a chain is the degenerate single-projection case of that constructor's
// general tree-of-projections shape; spec.md's distillation kept only the
// sum constraint, dropping the constructor's general tree topology, which
// is out of scope here since nothing in spec.md's scenarios exercises more
// than one projection).
func TomographyChain(n int, sum int, unary [][2]costs.Cost) (*fmgraph.Graph, error) {
	if len(unary) != n {
		return nil, fmt.Errorf("domain: TomographyChain wants %d unary entries, got %d", n, len(unary))
	}
	g := fmgraph.New()
	tc := factor.NewTomographyCounting(n, sum)
	tcHandle := g.AddFactor(tc)

	for i := 0; i < n; i++ {
		u := factor.NewUnarySimplex(2)
		u.Cost().Set(0, unary[i][0])
		u.Cost().Set(1, unary[i][1])
		uh := g.AddFactor(u)
		g.AddMessage(message.NewUnaryTomography(message.SRMP, i), uh, tcHandle, message.KindUnaryTomography)
	}

	if err := g.Finalize(); err != nil {
		return nil, fmt.Errorf("domain: TomographyChain: %w", err)
	}
	return g, nil
}
