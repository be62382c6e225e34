// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package querycache memoizes compiled fzf.Query objects keyed by
// (distro, query string), so repeated or type-ahead searches against the
// same distro skip recompiling the per-byte dispatch table.
package querycache

import (
	"fmt"
	"time"

	"github.com/antgroup/fzfserve/internal/fzf"
	"github.com/dgraph-io/ristretto/v2"
)

const entryTTL = 10 * time.Minute

// Cache wraps a ristretto cache of compiled queries.
type Cache struct {
	c *ristretto.Cache[string, *fzf.Query]
}

// New returns a Cache sized per the given knobs (§11.2), mirroring the
// teacher's NewCacheDB sizing.
func New(numCounters, maxCost, bufferItems int64) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, *fzf.Query]{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: bufferItems,
	})
	if err != nil {
		return nil, fmt.Errorf("querycache: new cache: %w", err)
	}
	return &Cache{c: c}, nil
}

func key(distro, query string) string {
	return distro + "\x00" + query
}

// Compile returns a compiled Query for (distro, query), reusing a cached
// instance when present. Invalid queries are never cached.
func (c *Cache) Compile(distro, query string) (*fzf.Query, error) {
	k := key(distro, query)
	if q, ok := c.c.Get(k); ok {
		return q, nil
	}
	q, err := fzf.NewQuery(query)
	if err != nil {
		return nil, err
	}
	c.c.SetWithTTL(k, q, int64(len(query)), entryTTL)
	return q, nil
}

// Close releases cache resources.
func (c *Cache) Close() {
	c.c.Close()
}
