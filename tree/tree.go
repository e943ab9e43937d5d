// Package tree implements spec.md §4.8's trees-within-graph: a subset of
// a fmgraph.Graph's messages may be flagged as belonging to a spanning
// tree (or forest of trees) over a factor subset, and run to exact
// optimality via an inward (leaves toward root) then outward (root toward
// leaves) min-sum pass, instead of the ordinary weighted BCA sweep.
//
// The traversal bookkeeping (parent links, visited set, per-node order) is
// adapted from the teacher's dfs.go walker, the same way fmgraph.Finalize
// already adapts dfs.TopologicalSort's state-machine traversal to a
// queue-based pass over dense integer factor handles: a tree's only
// ordering requirement is "parent before child" (outward) or its reverse
// (inward), which a single BFS layer-order satisfies without needing
// dfs.go's recursive pre/post-order hooks.
package tree

import (
	"errors"
	"sort"

	"github.com/dualbca/dualbca/fmgraph"
	"github.com/dualbca/dualbca/unionfind"
)

// ErrNotATree is returned by SpanningTree when the given message set closes
// a cycle among the factors it couples.
var ErrNotATree = errors.New("tree: message set contains a cycle")

// SpanningTree verifies that idxs forms an acyclic subgraph (a forest of
// one or more trees) over g's factors, then flags every message in idxs as
// a tree message via fmgraph.Graph.MarkTree. Flagged messages are skipped
// by scheduler's ordinary forward/backward/rounding sweeps; RunExact
// handles them instead.
func SpanningTree(g *fmgraph.Graph, idxs []int) error {
	uf := unionfind.New(g.NumFactors())
	for _, idx := range idxs {
		left, right, _, _ := g.Message(idx)
		if uf.Connected(left, right) {
			return ErrNotATree
		}
		uf.Merge(left, right)
	}
	for _, idx := range idxs {
		g.MarkTree(idx, true)
	}
	return nil
}

// adjEdge is one tree-message hop from a factor to a neighboring factor.
type adjEdge struct {
	msgIdx   int
	neighbor int
}

// RunExact runs spec.md §4.8's exact min-sum inward/outward pass over
// every tree (connected component) formed by the messages in idxs, which
// must already have been flagged via SpanningTree. Each component is
// rooted at its smallest factor handle for determinism; the inward pass
// moves every non-root factor's cost into its parent at full weight
// (zeroing, per message variant, the child's contribution along that
// axis), and the outward pass propagates the resulting exact marginals
// back out to the leaves.
func RunExact(g *fmgraph.Graph, idxs []int) error {
	adj := make(map[int][]adjEdge)
	touched := make(map[int]bool)
	for _, idx := range idxs {
		left, right, _, _ := g.Message(idx)
		adj[left] = append(adj[left], adjEdge{msgIdx: idx, neighbor: right})
		adj[right] = append(adj[right], adjEdge{msgIdx: idx, neighbor: left})
		touched[left] = true
		touched[right] = true
	}

	factors := make([]int, 0, len(touched))
	for f := range touched {
		factors = append(factors, f)
	}
	sort.Ints(factors)

	visited := make(map[int]bool, len(factors))
	for _, root := range factors {
		if visited[root] {
			continue
		}
		runExactComponent(g, adj, root, visited)
	}
	return nil
}

// parentLink records how one non-root factor in a component reaches its
// parent: via message viaMsg, whose other endpoint is parent.
type parentLink struct {
	parent int
	viaMsg int
}

// runExactComponent runs one tree's inward/outward pass, rooted at root.
func runExactComponent(g *fmgraph.Graph, adj map[int][]adjEdge, root int, visited map[int]bool) {
	parentOf := make(map[int]parentLink)
	levelOrder := []int{root}
	visited[root] = true
	queue := []int{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range adj[cur] {
			if visited[e.neighbor] {
				continue
			}
			visited[e.neighbor] = true
			parentOf[e.neighbor] = parentLink{parent: cur, viaMsg: e.msgIdx}
			queue = append(queue, e.neighbor)
			levelOrder = append(levelOrder, e.neighbor)
		}
	}

	// Inward: every factor except root, in reverse level order (children
	// always precede their parent), sends its full cost toward its parent.
	for i := len(levelOrder) - 1; i >= 1; i-- {
		f := levelOrder[i]
		link := parentOf[f]
		passMass(g, link.viaMsg, link.parent)
	}

	// Outward: every factor except root, in level order (a parent always
	// precedes its children), receives the exact marginal back from its
	// parent.
	for i := 1; i < len(levelOrder); i++ {
		f := levelOrder[i]
		link := parentOf[f]
		passMass(g, link.viaMsg, f)
	}
}

// passMass moves message idx's current contribution toward factor to,
// which must be one of that message's two endpoints: SendToRight at full
// weight if to is the right endpoint, ReceiveFromRight if to is the left
// endpoint — the same two dual-bound-preserving primitives the ordinary
// BCA sweep uses, just driven in tree order instead of topological-sweep
// order and always at full (exact, not block-coordinate) weight.
func passMass(g *fmgraph.Graph, idx, to int) {
	left, right, _, msg := g.Message(idx)
	if to == right {
		msg.SendToRight(g.Factor(left), g.Factor(right), 1)
		return
	}
	msg.ReceiveFromRight(g.Factor(left), g.Factor(right))
}
