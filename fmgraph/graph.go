// Package fmgraph implements the factor-message graph of spec.md §4.4: an
// ordered, arena-indexed container of factor handles plus the bipartite
// incidence between factors and the messages that couple them.
//
// Factors live in a dense []factor.Factor arena (spec.md §9's "arena +
// index" redesign note replacing the source's pointer-rich graph);
// messages are stored as (left, right int) index pairs tagged with a
// message.Kind, grounded on
// _examples/original_source/include/solvers/graphical_model/graphical_model.h's
// add_factor/add_message/add_factor_relation API shape.
package fmgraph

import (
	"errors"

	"github.com/dualbca/dualbca/factor"
	"github.com/dualbca/dualbca/message"
)

// ErrCycleDetected is returned by Finalize when the factor relations and
// message endpoints do not admit any topological order.
var ErrCycleDetected = errors.New("fmgraph: cycle detected among factor relations")

// ErrUnfinalized is returned by Order/OutgoingMessages/IncomingMessages
// queries made before a successful Finalize call.
var ErrUnfinalized = errors.New("fmgraph: graph has not been finalized")

// messageEdge is one message's endpoints and variant tag.
type messageEdge struct {
	left, right int
	kind        message.Kind
	msg         message.Message
}

// Graph is the factor-message graph: a dense factor arena plus message
// incidence and a precomputed visiting order.
type Graph struct {
	factors   []factor.Factor
	relations [][2]int
	messages  []messageEdge

	outgoing [][]int // outgoing[f] = indices into messages where f is the left endpoint
	incoming [][]int // incoming[f] = indices into messages where f is the right endpoint

	order      []int
	finalized  bool
	treeFlags  []bool // per-message, set by tree.SpanningTree
}

// New allocates an empty factor-message graph.
func New() *Graph {
	return &Graph{}
}

// AddFactor appends f to the arena and returns its handle (dense index).
func (g *Graph) AddFactor(f factor.Factor) int {
	g.factors = append(g.factors, f)
	g.outgoing = append(g.outgoing, nil)
	g.incoming = append(g.incoming, nil)
	g.finalized = false
	return len(g.factors) - 1
}

// NumFactors returns the number of factors in the arena.
func (g *Graph) NumFactors() int { return len(g.factors) }

// Factor returns the factor at handle h.
func (g *Graph) Factor(h int) factor.Factor { return g.factors[h] }

// AddMessage registers m between factor handles left and right, tagged
// with kind, and returns the message's index.
func (g *Graph) AddMessage(m message.Message, left, right int, kind message.Kind) int {
	idx := len(g.messages)
	g.messages = append(g.messages, messageEdge{left: left, right: right, kind: kind, msg: m})
	g.treeFlags = append(g.treeFlags, false)
	g.outgoing[left] = append(g.outgoing[left], idx)
	g.incoming[right] = append(g.incoming[right], idx)
	g.finalized = false
	return idx
}

// NumMessages returns the number of messages in the graph.
func (g *Graph) NumMessages() int { return len(g.messages) }

// Message returns message idx's endpoints, kind, and implementation.
func (g *Graph) Message(idx int) (left, right int, kind message.Kind, msg message.Message) {
	e := g.messages[idx]
	return e.left, e.right, e.kind, e.msg
}

// AddFactorRelation records a hint that factor a should precede factor b
// in the visit order, without implying a message between them.
func (g *Graph) AddFactorRelation(a, b int) {
	g.relations = append(g.relations, [2]int{a, b})
	g.finalized = false
}

// MarkTree flags message idx as belonging to a spanning tree (set by
// package tree); flagged messages are skipped by the ordinary sweep and
// handled instead by tree.SpanningTree's exact inward/outward passes.
func (g *Graph) MarkTree(idx int, isTree bool) { g.treeFlags[idx] = isTree }

// IsTreeMessage reports whether message idx is flagged as a tree message.
func (g *Graph) IsTreeMessage(idx int) bool { return g.treeFlags[idx] }

// OutgoingMessages returns the indices of messages where f is the left
// endpoint (forward messages), in insertion order.
func (g *Graph) OutgoingMessages(f int) []int { return g.outgoing[f] }

// IncomingMessages returns the indices of messages where f is the right
// endpoint (backward messages), in insertion order.
func (g *Graph) IncomingMessages(f int) []int { return g.incoming[f] }

// Order returns the finalized visiting order (factor handles, forward
// sweep order; the backward sweep walks it in reverse). Finalize must
// have succeeded since the last graph mutation.
func (g *Graph) Order() ([]int, error) {
	if !g.finalized {
		return nil, ErrUnfinalized
	}
	return g.order, nil
}

// Finalize computes the topological visiting order over the partial order
// defined by AddFactorRelation hints plus every message's (left, right)
// edge, via Kahn's algorithm — adapted from the teacher's
// dfs.TopologicalSort (state-machine DFS over string vertex IDs) to a
// queue-based pass over dense integer factor indices, since an arena of
// contiguous handles has no need for a separate visited-state map keyed by
// string. Ties are broken by ascending handle index, which keeps a
// message chain inserted in domain-construction order together.
func (g *Graph) Finalize() error {
	n := len(g.factors)
	adj := make([][]int, n)
	indeg := make([]int, n)

	addEdge := func(a, b int) {
		adj[a] = append(adj[a], b)
		indeg[b]++
	}
	for _, r := range g.relations {
		addEdge(r[0], r[1])
	}
	for _, m := range g.messages {
		addEdge(m.left, m.right)
	}

	order := make([]int, 0, n)
	ready := make([]int, 0, n)
	for i := 0; i < n; i++ {
		if indeg[i] == 0 {
			ready = append(ready, i)
		}
	}

	for len(ready) > 0 {
		// Pop the smallest-index ready node to keep ties deterministic.
		minPos := 0
		for i := 1; i < len(ready); i++ {
			if ready[i] < ready[minPos] {
				minPos = i
			}
		}
		v := ready[minPos]
		ready = append(ready[:minPos], ready[minPos+1:]...)

		order = append(order, v)
		for _, next := range adj[v] {
			indeg[next]--
			if indeg[next] == 0 {
				ready = append(ready, next)
			}
		}
	}

	if len(order) != n {
		return ErrCycleDetected
	}
	g.order = order
	g.finalized = true
	return nil
}
