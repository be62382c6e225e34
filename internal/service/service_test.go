// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antgroup/fzfserve/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

// directoryTuple builds the plain [name, files, children] structure a
// directory decodes from, suitable for msgpack.Marshal.
func directoryTuple(name string, files []string, children ...[]any) []any {
	fs := make([]any, len(files))
	for i, f := range files {
		fs[i] = f
	}
	kids := make([]any, len(children))
	for i, c := range children {
		kids[i] = c
	}
	return []any{name, fs, kids}
}

func buildTestIndexFile(t *testing.T) string {
	t.Helper()
	child := directoryTuple("child", []string{"aaa", "bar"})
	root := directoryTuple("root", []string{"baz"}, child)

	rootBytes, err := msgpack.Marshal(root)
	require.NoError(t, err)

	forestBytes, err := msgpack.Marshal([]any{rootBytes})
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "paths.fzf")
	require.NoError(t, os.WriteFile(path, forestBytes, 0o644))
	return path
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	path := buildTestIndexFile(t)
	cfg := &config.Config{
		Listen:     "127.0.0.1:0",
		MaxResults: 10,
		Distros: []config.DistroConfig{
			{Name: "noble", PathsSource: config.SourceConfig{Kind: "local", Path: path}},
		},
	}
	cfg.Cache.NumCounters = 100
	cfg.Cache.MaxCost = 1 << 20
	cfg.Cache.BufferItems = 64

	s, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Shutdown(context.Background()) })
	return s
}

func TestHandleIndex(t *testing.T) {
	s := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Body.String(), "Hello from fzf@"))
}

func TestHandleRobots(t *testing.T) {
	s := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/robots.txt", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	assert.Equal(t, "User-agent: *\nDisallow: /\n", w.Body.String())
}

func TestHandleHealthz(t *testing.T) {
	s := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)

	var resp healthzResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Distros, 1)
	assert.Equal(t, "noble", resp.Distros[0].Name)
	assert.Equal(t, 1, resp.Distros[0].Directories)
}

func TestHandleDistroUnknown(t *testing.T) {
	s := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/jammy?q=abc", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleDistroMissingQuery(t *testing.T) {
	s := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/noble", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleDistroSearch(t *testing.T) {
	s := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/noble?q=aaa", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "root/child/aaa")
	assert.Contains(t, body, "Query: aaa")
	assert.Contains(t, body, "Results: 1")
}

func TestHandleDistroExactWithoutTagsConfigured(t *testing.T) {
	s := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/noble?exact=libfoo", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleAdminReloadDisabledByDefault(t *testing.T) {
	s := newTestServer(t)
	r := httptest.NewRequest(http.MethodPost, "/admin/reload", nil)
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleAdminLoginNotConfigured(t *testing.T) {
	s := newTestServer(t)
	body, err := json.Marshal(adminLoginRequest{Password: "x"})
	require.NoError(t, err)
	r := httptest.NewRequest(http.MethodPost, "/admin/login", bytes.NewReader(body))
	w := httptest.NewRecorder()
	s.ServeHTTP(w, r)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
