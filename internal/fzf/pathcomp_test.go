// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package fzf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bytesOf(chars []PChar) []byte {
	out := make([]byte, len(chars))
	for i, c := range chars {
		out[i] = c.Byte
	}
	return out
}

func bonusesOf(chars []PChar) []byte {
	out := make([]byte, len(chars))
	for i, c := range chars {
		out[i] = c.Bonus
	}
	return out
}

func TestPathComponentSimple(t *testing.T) {
	a := NewArena()
	pc, err := a.pathComponent("FooBarBaz.rs")
	require.NoError(t, err)

	assert.Equal(t, "FooBarBaz.rs", a.PathText(pc))
	assert.Equal(t, 12, pc.Len())

	chars := a.PathIter(pc)
	require.Len(t, chars, 12)
	assert.Equal(t, []byte("FooBarBaz.rs"), bytesOf(chars))
	assert.Equal(t, []byte{5, 0, 0, 2, 0, 0, 2, 0, 0, 0, 4, 0}, bonusesOf(chars))

	assert.Equal(t, uint64(0x00000081_9008C00C), pc.CharSet.bits())
}

func TestPathComponentComplex(t *testing.T) {
	a := NewArena()
	pc, err := a.pathComponent("a/b\U0001F980:C")
	require.NoError(t, err)

	assert.Equal(t, "a/b\x00:C", a.PathText(pc))
	assert.Equal(t, 6, pc.Len())

	chars := a.PathIter(pc)
	require.Len(t, chars, 6)
	assert.Equal(t, []byte{97, 47, 98, 0, 58, 67}, bytesOf(chars))
	assert.Equal(t, []byte{5, 0, 5, 0, 0, 4}, bonusesOf(chars))

	assert.Equal(t, uint64(0x00000000_0001C009), pc.CharSet.bits())
}

func TestPathComponentTooLong(t *testing.T) {
	a := NewArena()
	_, err := a.pathComponent(string(make([]byte, maxComponentLen+1)))
	assert.ErrorIs(t, err, ErrOversizedIndex)
}

func TestPathComponentMaxLenAccepted(t *testing.T) {
	a := NewArena()
	pc, err := a.pathComponent(string(make([]byte, maxComponentLen)))
	require.NoError(t, err)
	assert.Equal(t, maxComponentLen, pc.Len())
}
