// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package fzf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCharSetEmpty(t *testing.T) {
	var cs CharSet
	assert.Equal(t, uint64(0x0), cs.bits())
}

func TestCharSetAdd(t *testing.T) {
	var cs CharSet
	cs.Add('a')
	assert.Equal(t, uint64(0x00000000_00004000), cs.bits())

	cs.Add('B')
	assert.Equal(t, uint64(0x00000000_0000C000), cs.bits())

	cs.Add(' ')
	assert.Equal(t, uint64(0x00000000_0000C001), cs.bits())

	cs.Add('🦀')
	assert.Equal(t, uint64(0x00000000_0000C001), cs.bits(), "out-of-range runes collapse onto bit 0")

	cs.Add('b')
	assert.Equal(t, uint64(0x00000000_0000C001), cs.bits(), "case folds onto the same bit")

	cs.Add('b')
	assert.Equal(t, uint64(0x00000000_0000C001), cs.bits(), "adding twice is idempotent")
}

func TestCharSetUnion(t *testing.T) {
	var cs0 CharSet
	cs0.Add('A')
	assert.Equal(t, uint64(0x00000000_00004000), cs0.bits())

	var cs1 CharSet
	cs1.Add(' ')
	assert.Equal(t, uint64(0x00000000_00000001), cs1.bits())

	cs0.Union(cs1)
	assert.Equal(t, uint64(0x00000000_00004001), cs0.bits())
}

func TestCharSetCovers(t *testing.T) {
	var cs0 CharSet
	cs0.Add('A')
	cs0.Add('B')

	var cs1 CharSet
	cs1.Add('a')

	assert.True(t, cs0.Covers(cs1))
	assert.False(t, cs1.Covers(cs0))
}
