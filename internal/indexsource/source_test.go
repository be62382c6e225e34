// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package indexsource

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/antgroup/fzfserve/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLocalUncompressed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "paths.fzf")
	require.NoError(t, os.WriteFile(path, []byte("hello index"), 0o644))

	src, err := New(config.SourceConfig{Kind: "local", Path: path})
	require.NoError(t, err)

	fetched, err := Load(context.Background(), src, false)
	require.NoError(t, err)
	assert.Equal(t, "hello index", string(fetched.Data))
	assert.NotEqual(t, [32]byte{}, fetched.Digest)
}

func TestNewUnknownKind(t *testing.T) {
	_, err := New(config.SourceConfig{Kind: "ftp"})
	assert.Error(t, err)
}

func TestNewLocalRequiresPath(t *testing.T) {
	_, err := New(config.SourceConfig{Kind: "local"})
	assert.Error(t, err)
}
