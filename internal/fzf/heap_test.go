// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package fzf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultHeapDrainAscending(t *testing.T) {
	h := NewResultHeap(100)
	h.Offer(Match{Score: 123, Path: "abc"})
	h.Offer(Match{Score: 456, Path: "pqr"})
	h.Offer(Match{Score: 1, Path: "123"})

	out := h.Drain()
	want := []uint32{1, 123, 456}
	for i, m := range out {
		assert.Equal(t, want[i], m.Score)
	}
}

func TestResultHeapResultsDescending(t *testing.T) {
	h := NewResultHeap(100)
	h.Offer(Match{Score: 123, Path: "abc"})
	h.Offer(Match{Score: 456, Path: "pqr"})
	h.Offer(Match{Score: 1, Path: "123"})

	out := h.Results()
	want := []uint32{456, 123, 1}
	for i, m := range out {
		assert.Equal(t, want[i], m.Score)
	}
}

func TestResultHeapEvictsWeakest(t *testing.T) {
	h := NewResultHeap(2)
	h.Offer(Match{Score: 4, Path: "root/baz"})
	h.Offer(Match{Score: 9, Path: "root/child/aaa"})
	// A third, equal-scoring match must not displace an existing entry:
	// earlier-encountered paths win ties.
	h.Offer(Match{Score: 4, Path: "root/child/bar"})

	assert.Equal(t, 2, h.Len())
	out := h.Results()
	assert.Equal(t, uint32(9), out[0].Score)
	assert.Equal(t, "root/child/aaa", out[0].Path)
	assert.Equal(t, uint32(4), out[1].Score)
	assert.Equal(t, "root/baz", out[1].Path)
}

func TestResultHeapBelowCapacityKeepsAll(t *testing.T) {
	h := NewResultHeap(5)
	h.Offer(Match{Score: 1, Path: "a"})
	h.Offer(Match{Score: 2, Path: "b"})
	assert.Equal(t, 2, h.Len())
}
