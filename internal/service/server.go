// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/antgroup/fzfserve/internal/audit"
	"github.com/antgroup/fzfserve/internal/auth"
	"github.com/antgroup/fzfserve/internal/config"
	"github.com/antgroup/fzfserve/internal/querycache"
	"github.com/antgroup/fzfserve/pkg/version"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Server holds every distro's currently-live index plus the shared
// collaborators (query cache, admin signing key, audit sink) and serves
// the full §11.3 HTTP surface.
type Server struct {
	cfg        *config.Config
	distros    atomic.Pointer[map[string]*Distro]
	cache      *querycache.Cache
	signingKey auth.SigningKey
	audit      *audit.Sink
	srv        *http.Server
	r          *mux.Router
}

// New builds a Server from cfg and performs the initial load of every
// configured distro. A single failed distro load aborts (§4.9, §11.6).
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	cache, err := querycache.New(cfg.Cache.NumCounters, cfg.Cache.MaxCost, cfg.Cache.BufferItems)
	if err != nil {
		return nil, err
	}
	key, err := auth.NewSigningKey()
	if err != nil {
		return nil, err
	}

	s := &Server{cfg: cfg, cache: cache, signingKey: key}

	if cfg.Audit.Database != nil {
		sink, err := audit.New(cfg.Audit.Database)
		if err != nil {
			return nil, fmt.Errorf("audit sink: %w", err)
		}
		s.audit = sink
	}

	if err := s.reload(ctx); err != nil {
		return nil, err
	}

	s.srv = &http.Server{
		Addr:         cfg.Listen,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.initialize()
	s.srv.Handler = s
	return s, nil
}

// reload loads every configured distro concurrently and, only if every
// load succeeds, atomically swaps the live distro set.
func (s *Server) reload(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	loaded := make([]*Distro, len(s.cfg.Distros))
	for i, dc := range s.cfg.Distros {
		g.Go(func() error {
			d, err := loadDistro(gctx, dc)
			if err != nil {
				return err
			}
			loaded[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("reload: %w", err)
	}

	next := make(map[string]*Distro, len(loaded))
	for _, d := range loaded {
		next[d.Name] = d
	}
	s.distros.Store(&next)
	logrus.Infof("fzfserve: loaded %d distros", len(next))
	return nil
}

func (s *Server) distro(name string) (*Distro, bool) {
	m := s.distros.Load()
	if m == nil {
		return nil, false
	}
	d, ok := (*m)[name]
	return d, ok
}

func (s *Server) allDistros() []*Distro {
	m := s.distros.Load()
	if m == nil {
		return nil
	}
	out := make([]*Distro, 0, len(*m))
	for _, d := range *m {
		out = append(out, d)
	}
	return out
}

func (s *Server) initialize() {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/robots.txt", s.handleRobots).Methods(http.MethodGet)
	r.HandleFunc("/admin/login", s.handleAdminLogin).Methods(http.MethodPost)
	r.HandleFunc("/admin/reload", s.handleAdminReload).Methods(http.MethodPost)
	r.HandleFunc("/{distro}", s.handleDistro).Methods(http.MethodGet)
	s.r = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	hw := newResponseWriter(w)
	s.r.ServeHTTP(hw, r)
	logrus.Infof("[%s] %s %s status: %d spent: %v", r.RemoteAddr, r.Method, r.RequestURI, hw.statusCode, time.Since(now))
}

// ListenAndServe starts the HTTP server. It blocks until the server is
// shut down.
func (s *Server) ListenAndServe() error {
	logrus.Infof("fzfserve: listening on %s (%s)", s.cfg.Listen, version.GetVersionString())
	return s.srv.ListenAndServe()
}

// Shutdown gracefully stops the server and releases collaborators.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	s.cache.Close()
	if s.audit != nil {
		_ = s.audit.Close()
	}
	return err
}
