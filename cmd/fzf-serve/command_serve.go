// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"net/http"

	"github.com/antgroup/fzfserve/internal/config"
	"github.com/antgroup/fzfserve/internal/service"
	"github.com/sirupsen/logrus"
)

// ServeCmd loads every configured distro and serves the HTTP search API
// until signaled to stop.
type ServeCmd struct {
	Config string `short:"c" name:"config" help:"Location of the server config file" default:"fzf-serve.toml" type:"path"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := config.Load(c.Config, g.ExpandEnv)
	if err != nil {
		logrus.Errorf("fzf-serve: load config: %v", err)
		return err
	}

	srv, err := service.New(context.Background(), cfg)
	if err != nil {
		logrus.Errorf("fzf-serve: start service: %v", err)
		return err
	}

	cl := newCloser()
	go cl.listenSignal(context.Background(), srv)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.Errorf("fzf-serve: listen: %v", err)
		return err
	}
	<-cl.ch
	logrus.Infof("fzf-serve: exited")
	return nil
}
