package tighten

import (
	"context"
	"runtime"
	"sort"

	"github.com/dualbca/dualbca/costs"
	"github.com/dualbca/dualbca/factor"
	"github.com/dualbca/dualbca/message"
	"golang.org/x/sync/errgroup"
)

// violatedCandidate is one edge whose current theta is negative enough to
// seed a cycle search, ordered by descending violation so the strongest
// candidates are tried first (spec.md §4.6: "order candidate edges by
// descending -theta(e)").
type violatedCandidate struct {
	u, v  int
	theta costs.Cost
}

// tightenCycles runs spec.md §4.6's cycle-tightening pass: for every edge
// with theta(e) <= -minDualIncrease, union-find-prune disconnected pairs,
// then bidirectional-BFS for a complementary path of edges with
// theta >= minDualIncrease; on success, triangulate the resulting cycle
// and instantiate any missing triplet factors. Stops once
// maxConstraints triangles have been added (0 means unlimited).
//
// The BFS searches themselves are read-only (spec.md §5: the graph is
// read-only during tightening's search phase, mutated only once a cycle
// is confirmed), so the independent candidates are fanned out across a
// bounded worker pool via errgroup before any graph mutation happens;
// the subsequent triangulation loop that actually allocates factors and
// messages stays strictly sequential in priority order.
func (e *Engine) tightenCycles(minDualIncrease costs.Cost, maxConstraints int) int {
	var candidates []violatedCandidate
	for k, h := range e.edgeFactor {
		theta, _ := e.edgeThetaByHandle(h)
		if theta <= -minDualIncrease {
			candidates = append(candidates, violatedCandidate{k[0], k[1], theta})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].theta < candidates[j].theta })

	e.rebuildUnionFind(minDualIncrease)

	pruned := candidates[:0:0]
	for _, c := range candidates {
		if e.uf.ThreadSafeConnected(c.u, c.v) {
			pruned = append(pruned, c)
		}
	}

	paths := make([][]int, len(pruned))
	workers := runtime.NumCPU() - 2
	if workers < 1 {
		workers = 1
	}
	if workers > len(pruned) {
		workers = len(pruned)
	}
	if workers > 0 {
		sem := make(chan struct{}, workers)
		group, _ := errgroup.WithContext(context.Background())
		for i, c := range pruned {
			i, c := i, c
			sem <- struct{}{}
			group.Go(func() error {
				defer func() { <-sem }()
				path, ok := e.bidirectionalBFS(c.u, c.v, minDualIncrease)
				if ok {
					paths[i] = path
				}
				return nil
			})
		}
		_ = group.Wait()
	}

	added := 0
	for i := range pruned {
		if maxConstraints > 0 && added >= maxConstraints {
			break
		}
		if paths[i] == nil {
			continue
		}
		cycle := normalForm(paths[i])
		added += e.triangulate(cycle, maxConstraints-added)
	}
	return added
}

// edgeThetaByHandle is edgeTheta keyed by factor handle rather than node
// pair, used internally once a candidate's handle is already known.
func (e *Engine) edgeThetaByHandle(h int) (costs.Cost, bool) {
	switch e.domain {
	case DomainMulticut:
		me := e.g.Factor(h).(*factor.MulticutEdge)
		return me.Theta(), true
	default:
		p := e.g.Factor(h).(*factor.PairwiseSimplex)
		return p.Cost().At(1, 0) - p.Cost().At(0, 0), true
	}
}

// rebuildUnionFind merges every node pair connected by a "good" edge
// (theta >= minDualIncrease): spec.md §4.6's pruning structure, computed
// once per Tighten call rather than per candidate.
func (e *Engine) rebuildUnionFind(minDualIncrease costs.Cost) {
	e.uf.Reset()
	for k, h := range e.edgeFactor {
		theta, _ := e.edgeThetaByHandle(h)
		if theta >= minDualIncrease {
			e.uf.Merge(k[0], k[1])
		}
	}
}

// bidirectionalBFS searches for the shortest path between u and v using
// only edges with theta >= minDualIncrease, expanding the smaller of the
// two frontiers each round (spec.md §4.6). On success it returns the full
// node sequence from u to v inclusive (the cycle is that path plus the
// violated edge (v, u) closing it).
func (e *Engine) bidirectionalBFS(u, v int, minDualIncrease costs.Cost) ([]int, bool) {
	if u == v {
		return nil, false
	}
	parentU := map[int]int{u: -1}
	parentV := map[int]int{v: -1}
	frontU := []int{u}
	frontV := []int{v}

	goodNeighbors := func(x int) []int {
		var out []int
		for _, y := range e.neighbors(x) {
			if (x == u && y == v) || (x == v && y == u) {
				continue // never reuse the violated edge itself as a "good" edge
			}
			theta, ok := e.edgeTheta(x, y)
			if ok && theta >= minDualIncrease {
				out = append(out, y)
			}
		}
		return out
	}

	// expand grows the smaller frontier by one BFS layer, recording
	// parents in its own side's map, and reports a meeting node shared
	// with the other side's map if one appears this layer.
	expand := func(front []int, parent, otherParent map[int]int) ([]int, int, bool) {
		var next []int
		for _, x := range front {
			for _, y := range goodNeighbors(x) {
				if _, seen := parent[y]; seen {
					continue
				}
				parent[y] = x
				next = append(next, y)
				if _, met := otherParent[y]; met {
					return next, y, true
				}
			}
		}
		return next, -1, false
	}

	for len(frontU) > 0 && len(frontV) > 0 {
		var meet int
		var found bool
		if len(frontU) <= len(frontV) {
			frontU, meet, found = expand(frontU, parentU, parentV)
		} else {
			frontV, meet, found = expand(frontV, parentV, parentU)
		}
		if found {
			left := walkToRoot(meet, parentU)
			right := walkToRoot(meet, parentV)
			full := make([]int, 0, len(left)+len(right)-1)
			full = append(full, left...)
			for i := len(right) - 2; i >= 0; i-- {
				full = append(full, right[i])
			}
			return full, true
		}
	}
	return nil, false
}

// walkToRoot follows parent links from n back to its frontier's root
// (parent -1), returning the path root..n.
func walkToRoot(n int, parent map[int]int) []int {
	var path []int
	for {
		path = append([]int{n}, path...)
		p, ok := parent[n]
		if !ok || p == -1 {
			return path
		}
		n = p
	}
}

// normalForm rotates a cycle (given as a node sequence with the first and
// last node implicitly joined) so its smallest node is first, and reverses
// it if the second node would otherwise exceed the last — spec.md §4.6's
// canonical form, avoiding duplicate triangle instantiation for the same
// cycle discovered from either endpoint.
func normalForm(cycle []int) []int {
	n := len(cycle)
	minIdx := 0
	for i := 1; i < n; i++ {
		if cycle[i] < cycle[minIdx] {
			minIdx = i
		}
	}
	rotated := make([]int, n)
	for i := 0; i < n; i++ {
		rotated[i] = cycle[(minIdx+i)%n]
	}
	if n > 2 && rotated[1] > rotated[n-1] {
		for i, j := 1, n-1; i < j; i, j = i+1, j-1 {
			rotated[i], rotated[j] = rotated[j], rotated[i]
		}
	}
	return rotated
}

// triangulate fans a normal-form cycle out from its smallest node (index
// 0), instantiating a triplet factor for every triangle (cycle[0],
// cycle[i], cycle[i+1]) that does not already exist, inserting any
// missing zero-cost edge along the way (spec.md §4.6, step 3-4). Stops
// early once budget triangles have been added (budget <= 0 means
// unlimited, matching Tighten's convention).
func (e *Engine) triangulate(cycle []int, budget int) int {
	n := len(cycle)
	if n < 3 {
		return 0
	}
	added := 0
	root := cycle[0]
	for i := 1; i < n-1; i++ {
		if budget > 0 && added >= budget {
			break
		}
		a, b := cycle[i], cycle[i+1]
		if e.instantiateTriangle(root, a, b) {
			added++
		}
	}
	return added
}

// instantiateTriangle creates (if absent) the three edges and the triplet
// factor coupling nodes a, b, c, plus the three axis messages wiring it to
// its pairwise/edge neighbors. Returns false if the triangle already
// exists.
func (e *Engine) instantiateTriangle(a, b, c int) bool {
	key := canonicalTriple(a, b, c)
	if e.triangle[key] {
		return false
	}
	e.triangle[key] = true
	e.tripletOrder[key] = [3]int{a, b, c}

	eAB := e.ensureEdge(a, b)
	eAC := e.ensureEdge(a, c)
	eBC := e.ensureEdge(b, c)

	switch e.domain {
	case DomainMulticut:
		tri := factor.NewMulticutTriplet()
		h := e.g.AddFactor(tri)
		e.tripletHandle[key] = h
		e.g.AddMessage(message.NewMulticutEdgeTriplet(e.msgMode, factor.TripletEdge12), eAB, h, message.KindMulticutEdgeTriplet)
		e.g.AddMessage(message.NewMulticutEdgeTriplet(e.msgMode, factor.TripletEdge13), eAC, h, message.KindMulticutEdgeTriplet)
		e.g.AddMessage(message.NewMulticutEdgeTriplet(e.msgMode, factor.TripletEdge23), eBC, h, message.KindMulticutEdgeTriplet)
	default:
		pAB := e.g.Factor(eAB).(*factor.PairwiseSimplex)
		pAC := e.g.Factor(eAC).(*factor.PairwiseSimplex)
		pBC := e.g.Factor(eBC).(*factor.PairwiseSimplex)
		d1, _ := pAB.Dims()
		_, d2 := pAC.Dims()
		_, d3 := pBC.Dims()
		tri := factor.NewTripletSimplex(d1, d2, d3)
		h := e.g.AddFactor(tri)
		e.g.AddMessage(message.NewPairwiseTriplet12(e.msgMode), eAB, h, message.KindPairwiseTriplet12)
		e.g.AddMessage(message.NewPairwiseTriplet13(e.msgMode), eAC, h, message.KindPairwiseTriplet13)
		e.g.AddMessage(message.NewPairwiseTriplet23(e.msgMode), eBC, h, message.KindPairwiseTriplet23)
	}
	return true
}

// ensureEdge returns the existing edge factor handle between u and v, or
// allocates a new zero-cost one (PairwiseSimplex or MulticutEdge depending
// on domain) and registers it — spec.md §4.6's "inserting any missing
// zero-cost edges".
func (e *Engine) ensureEdge(u, v int) int {
	k := canon(u, v)
	if h, ok := e.edgeFactor[k]; ok {
		return h
	}
	var h int
	switch e.domain {
	case DomainMulticut:
		h = e.g.AddFactor(factor.NewMulticutEdge(0))
	default:
		h = e.g.AddFactor(factor.NewPairwiseSimplex(e.labels[u], e.labels[v]))
	}
	e.edgeFactor[k] = h
	return h
}

// canonicalTriple sorts three node indices ascending so the same triangle
// is keyed identically regardless of discovery order.
func canonicalTriple(a, b, c int) [3]int {
	s := []int{a, b, c}
	sort.Ints(s)
	return [3]int{s[0], s[1], s[2]}
}
