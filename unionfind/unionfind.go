// Package unionfind provides a path-compressed, size-weighted disjoint-set
// structure over a dense [0, n) universe, plus a non-compressing read-only
// Find safe for concurrent use during the tightening engine's fan-out of
// independent BFS searches.
//
// Grounded on the original engine's union_find.hxx (id/sz/cnt fields,
// the same path-compression and union-by-size strategy) and cross-checked
// against the disjoint-set the teacher inlines in prim_kruskal/kruskal.go.
package unionfind

// UnionFind is a disjoint-set structure over the universe [0, n).
type UnionFind struct {
	parent []int
	size   []int
	count  int
}

// New creates a UnionFind with n isolated singleton sets.
func New(n int) *UnionFind {
	uf := &UnionFind{
		parent: make([]int, n),
		size:   make([]int, n),
		count:  n,
	}
	uf.Reset()
	return uf
}

// Reset restores n isolated singleton sets.
func (uf *UnionFind) Reset() {
	uf.count = len(uf.parent)
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
}

// Find returns the root of the set containing p, compressing the path
// from p to the root as it walks.
func (uf *UnionFind) Find(p int) int {
	root := p
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for p != root {
		next := uf.parent[p]
		uf.parent[p] = root
		p = next
	}
	return root
}

// Merge unions the sets containing x and y, attaching the smaller set's
// root to the larger set's root.
func (uf *UnionFind) Merge(x, y int) {
	i, j := uf.Find(x), uf.Find(y)
	if i == j {
		return
	}
	if uf.size[i] < uf.size[j] {
		uf.parent[i] = j
		uf.size[j] += uf.size[i]
	} else {
		uf.parent[j] = i
		uf.size[i] += uf.size[j]
	}
	uf.count--
}

// Connected reports whether x and y are in the same set.
func (uf *UnionFind) Connected(x, y int) bool {
	return uf.Find(x) == uf.Find(y)
}

// Count returns the number of disjoint sets remaining.
func (uf *UnionFind) Count() int {
	return uf.count
}

// ThreadSafeFind returns the root of the set containing p without path
// compression, so it never writes uf.parent. Safe to call concurrently
// with other ThreadSafeFind calls (and with reads only) while no Merge is
// in flight — exactly the access pattern of tighten's concurrent BFS
// candidates, which only ever query connectivity between sweeps.
func (uf *UnionFind) ThreadSafeFind(p int) int {
	root := p
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	return root
}

// ThreadSafeConnected reports connectivity using ThreadSafeFind.
func (uf *UnionFind) ThreadSafeConnected(x, y int) bool {
	return uf.ThreadSafeFind(x) == uf.ThreadSafeFind(y)
}

// GetContiguousIDs maps every element's root to a dense label in [0, k),
// where k = Count(), and returns the per-element label slice.
func (uf *UnionFind) GetContiguousIDs() []int {
	n := len(uf.parent)
	const unset = -1
	rootLabel := make([]int, n)
	for i := range rootLabel {
		rootLabel[i] = unset
	}
	next := 0
	for i := 0; i < n; i++ {
		root := uf.Find(i)
		if rootLabel[root] == unset {
			rootLabel[root] = next
			next++
		}
	}
	labels := make([]int, n)
	for i := 0; i < n; i++ {
		labels[i] = rootLabel[uf.Find(i)]
	}
	return labels
}
