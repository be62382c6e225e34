// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package fzf

import (
	"github.com/emirpasic/gods/trees/binaryheap"
)

// Match is a filesystem path that matched a query, and its score.
type Match struct {
	Score uint32
	Path  string
}

func matchComparator(a, b any) int {
	x, y := a.(Match), b.(Match)
	switch {
	case x.Score < y.Score:
		return -1
	case x.Score > y.Score:
		return 1
	default:
		return 0
	}
}

// ResultHeap is a fixed-capacity priority queue retaining the K
// highest-scoring Matches seen. It is built on
// github.com/emirpasic/gods/trees/binaryheap, the same heap the teacher
// uses for its commit-graph walk (modules/zeta/object/commit_walker_topo_order.go),
// ordered here as a min-heap on Match.Score so the weakest retained
// match is always the one evicted.
type ResultHeap struct {
	heap *binaryheap.Heap
	cap  int
}

// NewResultHeap returns an empty heap that retains at most cap matches.
func NewResultHeap(cap int) *ResultHeap {
	return &ResultHeap{heap: binaryheap.NewWith(matchComparator), cap: cap}
}

// Offer considers m for inclusion in the top-K. If the heap isn't yet
// full, m is always kept. Otherwise m replaces the current weakest match
// only if it strictly outscores it — so that, per §4.7, earlier-visited
// paths win ties and never get displaced by an equal-scoring later one.
func (h *ResultHeap) Offer(m Match) {
	if h.heap.Size() < h.cap {
		h.heap.Push(m)
		return
	}
	root, ok := h.heap.Peek()
	if !ok {
		h.heap.Push(m)
		return
	}
	if m.Score > root.(Match).Score {
		h.heap.Pop()
		h.heap.Push(m)
	}
}

// Len returns the number of matches currently retained.
func (h *ResultHeap) Len() int {
	return h.heap.Size()
}

// Drain empties the heap, returning its contents in ascending-score
// order (the order repeated Pop calls naturally produce, since the heap
// is ordered smallest-root-first).
func (h *ResultHeap) Drain() []Match {
	out := make([]Match, 0, h.heap.Size())
	for {
		v, ok := h.heap.Pop()
		if !ok {
			break
		}
		out = append(out, v.(Match))
	}
	return out
}

// Results drains the heap and reverses it, producing the canonical
// descending-score ranked list described in §2 and §4.7 ("drain the
// heap and reverse-sort to produce descending score list").
func (h *ResultHeap) Results() []Match {
	out := h.Drain()
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}
