// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package querycache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := New(100, 1<<20, 64)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c
}

func TestCompileCachesByDistroAndQuery(t *testing.T) {
	c := newTestCache(t)

	q1, err := c.Compile("noble", "abc")
	require.NoError(t, err)
	c.c.Wait()
	q2, err := c.Compile("noble", "abc")
	require.NoError(t, err)
	assert.Same(t, q1, q2)

	q3, err := c.Compile("jammy", "abc")
	require.NoError(t, err)
	c.c.Wait()
	assert.NotSame(t, q1, q3)
}

func TestCompileRejectsInvalidQueryWithoutCaching(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Compile("noble", "")
	assert.Error(t, err)
	c.c.Wait()
	_, cached := c.c.Get(key("noble", ""))
	assert.False(t, cached)
}
