// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package service implements the HTTP surface of fzfserve: path search,
// tag lookup, liveness/health, and an authenticated reload endpoint.
package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/antgroup/fzfserve/internal/config"
	"github.com/antgroup/fzfserve/internal/fzf"
	"github.com/antgroup/fzfserve/internal/indexsource"
)

// Distro is one fully-loaded, immutable searchable tree. A Distro is
// never mutated after construction — reload builds a new one and swaps
// it in atomically (§5, §11.6).
type Distro struct {
	Name     string
	Arena    *fzf.Arena
	Roots    []fzf.Directory
	TagsData []byte // raw tags.fzf bytes, nil if not configured
	LoadedAt time.Time
}

// Digest returns the BLAKE3 digest of the loaded paths.fzf blob.
func (d *Distro) Digest() [32]byte {
	return d.Arena.Digest()
}

// loadDistro fetches and decodes both index files named by dc.
func loadDistro(ctx context.Context, dc config.DistroConfig) (*Distro, error) {
	pathsSrc, err := indexsource.New(dc.PathsSource)
	if err != nil {
		return nil, fmt.Errorf("distro %q: paths source: %w", dc.Name, err)
	}
	fetched, err := indexsource.Load(ctx, pathsSrc, dc.PathsSource.Compressed)
	if err != nil {
		return nil, fmt.Errorf("distro %q: load paths.fzf: %w", dc.Name, err)
	}

	arena := fzf.NewArena()
	roots, err := arena.Load(bytes.NewReader(fetched.Data))
	if err != nil {
		return nil, fmt.Errorf("distro %q: decode paths.fzf: %w", dc.Name, err)
	}
	arena.SetDigest(fetched.Digest)

	d := &Distro{
		Name:     dc.Name,
		Arena:    arena,
		Roots:    roots,
		LoadedAt: time.Now(),
	}

	if dc.TagsSource.Kind != "" {
		tagsSrc, err := indexsource.New(dc.TagsSource)
		if err != nil {
			return nil, fmt.Errorf("distro %q: tags source: %w", dc.Name, err)
		}
		tagsFetched, err := indexsource.Load(ctx, tagsSrc, dc.TagsSource.Compressed)
		if err != nil {
			return nil, fmt.Errorf("distro %q: load tags.fzf: %w", dc.Name, err)
		}
		d.TagsData = tagsFetched.Data
	}

	return d, nil
}
