// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/antgroup/fzfserve/internal/audit"
	"github.com/antgroup/fzfserve/internal/auth"
	"github.com/antgroup/fzfserve/internal/fzf"
	"github.com/antgroup/fzfserve/pkg/version"
	"github.com/gorilla/mux"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "Hello from fzf@%s!\n", version.GetBuildCommit())
}

func (s *Server) handleRobots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "User-agent: *\nDisallow: /\n")
}

type healthzDistro struct {
	Name        string `json:"name"`
	Digest      string `json:"digest"`
	Directories int    `json:"directories"`
	LoadedAt    string `json:"loaded_at"`
}

type healthzResponse struct {
	Distros []healthzDistro `json:"distros"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	resp := healthzResponse{}
	for _, d := range s.allDistros() {
		_, _, dirs := d.Arena.Stats()
		digest := d.Digest()
		resp.Distros = append(resp.Distros, healthzDistro{
			Name:        d.Name,
			Digest:      hex.EncodeToString(digest[:]),
			Directories: dirs,
			LoadedAt:    d.LoadedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleDistro(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["distro"]
	d, ok := s.distro(name)
	if !ok {
		http.Error(w, fmt.Sprintf("unknown distro %q", name), http.StatusNotFound)
		return
	}

	if exact := r.URL.Query().Get("exact"); exact != "" {
		s.handleExact(w, r, d, exact)
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		http.Error(w, "missing query parameter: q or exact", http.StatusBadRequest)
		return
	}
	s.handleSearch(w, r, d, q)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, d *Distro, query string) {
	start := time.Now()
	compiled, err := s.cache.Compile(d.Name, query)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid query: %v", err), http.StatusBadRequest)
		return
	}

	heap, err := fzf.Search(d.Arena, d.Roots, compiled, s.cfg.MaxResults)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	results := heap.Results()
	elapsed := time.Since(start)
	truncated := len(results) == s.cfg.MaxResults

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	for _, m := range results {
		fmt.Fprintf(w, "%d %s\n", m.Score, m.Path)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Query: %s\n", query)
	if truncated {
		fmt.Fprintf(w, "Results: %d (truncated)\n", len(results))
	} else {
		fmt.Fprintf(w, "Results: %d\n", len(results))
	}
	fmt.Fprintf(w, "Time: %v\n", elapsed)

	s.audit.Log(audit.Record{
		Distro:      d.Name,
		Query:       query,
		ResultCount: len(results),
		Truncated:   truncated,
		Elapsed:     elapsed,
		At:          start,
	})
}

func (s *Server) handleExact(w http.ResponseWriter, r *http.Request, d *Distro, name string) {
	if d.TagsData == nil {
		http.Error(w, fmt.Sprintf("distro %q has no tags index configured", d.Name), http.StatusNotFound)
		return
	}
	matches, err := fzf.ScanTags(bytes.NewReader(d.TagsData), name)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := fzf.FormatTagMatches(w, matches); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in_seconds"`
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Admin.AdminTokenHash == "" {
		http.Error(w, "admin login not configured", http.StatusNotFound)
		return
	}
	var req adminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	ok, err := auth.Verify(req.Password, s.cfg.Admin.AdminTokenHash)
	if err != nil || !ok {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	tok, err := auth.IssueToken(s.signingKey)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(adminLoginResponse{Token: tok, ExpiresIn: int64(auth.TokenTTL.Seconds())})
}

func (s *Server) handleAdminReload(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Admin.ReloadEnabled {
		http.Error(w, "reload disabled", http.StatusNotFound)
		return
	}
	status, err := auth.RequireAdminToken(r, s.signingKey)
	if err != nil {
		http.Error(w, err.Error(), status)
		return
	}
	if err := s.reload(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
