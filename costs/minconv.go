package costs

import (
	"container/heap"
	"sort"
)

// MinConvResult is the output of MinConvolve: for every combined index
// k = i + j reachable from some (i, j), Values[k] = min_{i+j=k} a[i]+b[j],
// with the minimizing indices recorded alongside. If a or b is empty,
// Values, ArgI and ArgJ are nil and GlobalMin is +Inf.
type MinConvResult struct {
	Values    []Cost
	ArgI      []int
	ArgJ      []int
	GlobalMin Cost
}

type pairItem struct {
	p, q int
	val  Cost
}

type pairHeap []pairItem

func (h pairHeap) Len() int            { return len(h) }
func (h pairHeap) Less(i, j int) bool  { return h[i].val < h[j].val }
func (h pairHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *pairHeap) Push(x interface{}) { *h = append(*h, x.(pairItem)) }
func (h *pairHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func argsortAsc(v []Cost) []int {
	idx := make([]int, len(v))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return v[idx[i]] < v[idx[j]] })
	return idx
}

// MinConvolve computes the additive min-convolution of a and b: for every
// k, c[k] = min_{i+j=k} a[i]+b[j]. It uses the priority-frontier algorithm:
// sort a and b ascending once, then enumerate (i, j) pairs in non-decreasing
// a[i]+b[j] order via a binary heap seeded at the two sorted minima and
// expanded one step at a time, so the first pair popped for any given k is
// already its minimum. If onlyMin is true, it stops after the very first
// pop — the heap's first pop is the minimum over the entire a x b grid, so
// the global minimum never requires visiting the rest of the grid.
func MinConvolve(a, b []Cost, onlyMin bool) MinConvResult {
	n, m := len(a), len(b)
	res := MinConvResult{GlobalMin: PosInf}
	if n == 0 || m == 0 {
		return res
	}
	ra := argsortAsc(a)
	rb := argsortAsc(b)

	outSize := n + m - 1
	res.Values = make([]Cost, outSize)
	res.ArgI = make([]int, outSize)
	res.ArgJ = make([]int, outSize)
	for k := 0; k < outSize; k++ {
		res.Values[k] = PosInf
		res.ArgI[k] = -1
		res.ArgJ[k] = -1
	}

	visited := make(map[[2]int]bool, n+m)
	h := &pairHeap{}
	heap.Init(h)
	push := func(p, q int) {
		if p < 0 || q < 0 || p >= n || q >= m {
			return
		}
		key := [2]int{p, q}
		if visited[key] {
			return
		}
		visited[key] = true
		heap.Push(h, pairItem{p: p, q: q, val: a[ra[p]] + b[rb[q]]})
	}
	push(0, 0)

	filled := 0
	for h.Len() > 0 {
		it := heap.Pop(h).(pairItem)
		if res.GlobalMin.IsPosInf() {
			res.GlobalMin = it.val
		}
		i, j := ra[it.p], rb[it.q]
		k := i + j
		if res.Values[k].IsPosInf() {
			res.Values[k] = it.val
			res.ArgI[k] = i
			res.ArgJ[k] = j
			filled++
		}
		if onlyMin {
			break
		}
		if filled == outSize {
			break
		}
		push(it.p+1, it.q)
		push(it.p, it.q+1)
	}
	return res
}
