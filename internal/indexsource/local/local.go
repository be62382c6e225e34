// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

// Package local fetches index blobs from the local filesystem.
package local

import (
	"context"
	"os"
)

// Source reads a file from disk.
type Source struct {
	Path string
}

// New returns a Source reading path.
func New(path string) *Source {
	return &Source{Path: path}
}

func (s *Source) Fetch(_ context.Context) ([]byte, error) {
	return os.ReadFile(s.Path)
}
