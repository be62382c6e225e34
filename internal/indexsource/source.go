// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package indexsource fetches paths.fzf/tags.fzf index blobs from one of
// a handful of storage backends, optionally unwrapping zstd compression,
// and hands back the raw bytes plus their BLAKE3 digest.
package indexsource

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/antgroup/fzfserve/modules/streamio"
	"github.com/zeebo/blake3"
)

// Source fetches one index blob.
type Source interface {
	// Fetch returns the fully-read bytes of the index as stored; any zstd
	// framing is left for Load to unwrap.
	Fetch(ctx context.Context) ([]byte, error)
}

// Fetched is the result of loading one index file: its bytes and digest.
type Fetched struct {
	Data   []byte
	Digest [32]byte
}

// Load runs src, optionally unwraps zstd framing when compressed is set,
// and computes the BLAKE3 digest of the final decompressed bytes.
func Load(ctx context.Context, src Source, compressed bool) (*Fetched, error) {
	raw, err := src.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	data := raw
	if compressed {
		data, err = decompress(raw)
		if err != nil {
			return nil, fmt.Errorf("indexsource: zstd decompress: %w", err)
		}
	}
	return &Fetched{Data: data, Digest: blake3.Sum256(data)}, nil
}

func decompress(raw []byte) ([]byte, error) {
	z, err := streamio.GetZstdReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer streamio.PutZstdReader(z)
	return io.ReadAll(z)
}
