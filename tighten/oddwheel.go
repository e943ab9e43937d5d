package tighten

import (
	"fmt"
	"sort"

	"github.com/dualbca/dualbca/costs"
	"github.com/dualbca/dualbca/factor"
	"github.com/dualbca/dualbca/message"
)

// tightenOddWheels runs spec.md §4.6's odd-wheel search: for each
// candidate center node, build a doubled bipartite graph over the nodes
// sharing a triangle with the center, add a cross edge for every adjacent
// triplet whose cheapest labeling splits the two non-center nodes in
// opposition to the center, and search for a path from any node's copy to
// its own mirror copy — an odd cycle through the center. DomainMRF has no
// odd-wheel factor (the source restricts odd-wheel tightening to the
// multicut relaxation), so this is a no-op outside DomainMulticut.
func (e *Engine) tightenOddWheels(minDualIncrease costs.Cost, budget int) int {
	if e.domain != DomainMulticut {
		return 0
	}
	added := 0
	for center := 0; center < e.nodeCount; center++ {
		if budget > 0 && added >= budget {
			break
		}
		rim := e.rimOfCenter(center)
		if len(rim) < 2 {
			continue
		}
		crossEdges := e.oppositionEdges(center, rim)
		cycle, ok := findOddCycle(rim, crossEdges)
		if !ok {
			continue
		}
		if e.instantiateOddWheel(center, cycle) {
			added++
		}
	}
	return added
}

// rimOfCenter returns every node directly edge-adjacent to center: the
// candidate rim variables of an odd wheel centered there.
func (e *Engine) rimOfCenter(center int) []int {
	rim := e.neighbors(center)
	sort.Ints(rim)
	return rim
}

// oppositionEdges finds, for every pair of rim nodes (u, v) that share a
// MulticutTriplet with center, whether that triplet's cheapest
// configuration cuts exactly one of (center,u) and (center,v) — the
// "two ones in opposition to the center" pattern spec.md §4.6 describes —
// and if so records the doubled cross edges (u, v') and (u', v).
func (e *Engine) oppositionEdges(center int, rim []int) map[[2]int]bool {
	cross := make(map[[2]int]bool)
	for i := 0; i < len(rim); i++ {
		for j := i + 1; j < len(rim); j++ {
			u, v := rim[i], rim[j]
			key := canonicalTriple(center, u, v)
			if !e.triangle[key] {
				continue
			}
			h, ok := e.findTripletHandle(center, u, v)
			if !ok {
				continue
			}
			tri := e.g.Factor(h).(*factor.MulticutTriplet)
			order := e.tripletOrder[key]
			if opposesCenter(tri, order, center, u, v) {
				cross[[2]int{u, v}] = true
				cross[[2]int{v, u}] = true
			}
		}
	}
	return cross
}

// findTripletHandle looks up, by canonical triangle key, the
// MulticutTriplet the engine recorded for the three edges of (a, b, c).
func (e *Engine) findTripletHandle(a, b, c int) (int, bool) {
	key := canonicalTriple(a, b, c)
	h, ok := e.tripletHandle[key]
	return h, ok
}

// axisForPair returns which of a MulticutTriplet's three edge axes
// couples nodes x and y, given the (a, b, c) order it was constructed
// with (axis12 = (order[0],order[1]), axis13 = (order[0],order[2]),
// axis23 = (order[1],order[2])).
func axisForPair(order [3]int, x, y int) factor.TripletEdgeIndex {
	pos := map[int]int{order[0]: 0, order[1]: 1, order[2]: 2}
	px, py := pos[x], pos[y]
	if px > py {
		px, py = py, px
	}
	switch {
	case px == 0 && py == 1:
		return factor.TripletEdge12
	case px == 0 && py == 2:
		return factor.TripletEdge13
	default:
		return factor.TripletEdge23
	}
}

// opposesCenter reports whether tri's current cheapest configuration cuts
// exactly one of the two edges touching center (center-u, center-v),
// with u-v itself cut — the pattern that makes (center, u, v) a
// candidate rib of an odd wheel through center.
func opposesCenter(tri *factor.MulticutTriplet, order [3]int, center, u, v int) bool {
	best := costs.PosInf
	bestCfg := -1
	for idx := 0; idx < tri.Size(); idx++ {
		if c := tri.Cost().At(idx); c < best {
			best = c
			bestCfg = idx
		}
	}
	if bestCfg < 0 {
		return false
	}
	cfg := factor.TripletConfig(bestCfg)
	axisCU := axisForPair(order, center, u)
	axisCV := axisForPair(order, center, v)
	axisUV := axisForPair(order, u, v)
	return cfg[axisCU] != cfg[axisCV] && cfg[axisUV]
}

// oddSide is one copy (unprimed or primed) of a rim node in the doubled
// bipartite graph findOddCycle searches.
type oddSide struct {
	node   int
	primed bool
}

var oddSideRoot = oddSide{node: -1}

// findOddCycle searches the doubled bipartite graph (two copies of every
// rim node, cross edges from oppositionEdges) for a path from some node's
// unprimed copy to its own primed copy — an odd cycle through the center
// — via plain BFS from every unvisited rim node.
func findOddCycle(rim []int, cross map[[2]int]bool) ([]int, bool) {
	adj := func(s oddSide) []oddSide {
		var out []oddSide
		for k := range cross {
			if k[0] == s.node {
				out = append(out, oddSide{node: k[1], primed: !s.primed})
			}
		}
		return out
	}
	for _, start := range rim {
		startSide := oddSide{node: start, primed: false}
		visited := map[oddSide]oddSide{startSide: oddSideRoot}
		queue := []oddSide{startSide}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			if cur.node == start && cur.primed {
				return walkOddSides(cur, visited), true
			}
			for _, nx := range adj(cur) {
				if _, seen := visited[nx]; seen {
					continue
				}
				visited[nx] = cur
				queue = append(queue, nx)
			}
		}
	}
	return nil, false
}

// walkOddSides follows parent links from meet back to its BFS root,
// returning the sequence of plain node ids (primed/unprimed collapsed).
func walkOddSides(meet oddSide, parent map[oddSide]oddSide) []int {
	var path []int
	cur := meet
	for {
		path = append([]int{cur.node}, path...)
		p, ok := parent[cur]
		if !ok || p == oddSideRoot {
			break
		}
		cur = p
	}
	return path
}

// instantiateOddWheel creates an OddWheel factor over cycle's rim nodes
// (deduplicated by a stable key so the same center/cycle is never
// instantiated twice) and wires each rim node's spoke MulticutEdge to it
// via a TripletOddWheel message.
func (e *Engine) instantiateOddWheel(center int, cycle []int) bool {
	rim := dedupPreserveOrder(cycle)
	if len(rim)%2 == 0 || len(rim) < 3 {
		return false
	}
	key := oddWheelKey(center, rim)
	if e.oddWheel[key] {
		return false
	}
	e.oddWheel[key] = true

	w := factor.NewOddWheel(len(rim))
	h := e.g.AddFactor(w)
	for i, node := range rim {
		spoke := e.ensureEdge(center, node)
		e.g.AddMessage(message.NewTripletOddWheel(e.msgMode, i), spoke, h, message.KindTripletOddWheel)
	}
	return true
}

func dedupPreserveOrder(nodes []int) []int {
	seen := make(map[int]bool, len(nodes))
	out := make([]int, 0, len(nodes))
	for _, n := range nodes {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

func oddWheelKey(center int, rim []int) string {
	sorted := append([]int(nil), rim...)
	sort.Ints(sorted)
	return fmt.Sprintf("%d:%v", center, sorted)
}
