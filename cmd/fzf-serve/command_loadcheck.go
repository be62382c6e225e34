// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/antgroup/fzfserve/internal/config"
	"github.com/antgroup/fzfserve/internal/fzf"
	"github.com/antgroup/fzfserve/internal/indexsource"
)

// LoadCheckCmd validates every configured distro's index file without
// starting the HTTP server, exiting nonzero on any malformed input —
// the same fail-fast loader used at startup, exposed as a standalone
// front door for CI / pre-deploy validation.
type LoadCheckCmd struct {
	Config string `short:"c" name:"config" help:"Location of the server config file" default:"fzf-serve.toml" type:"path"`
}

func (c *LoadCheckCmd) Run(g *Globals) error {
	cfg, err := config.Load(c.Config, g.ExpandEnv)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx := context.Background()
	for _, dc := range cfg.Distros {
		src, err := indexsource.New(dc.PathsSource)
		if err != nil {
			return fmt.Errorf("distro %q: %w", dc.Name, err)
		}
		fetched, err := indexsource.Load(ctx, src, dc.PathsSource.Compressed)
		if err != nil {
			return fmt.Errorf("distro %q: fetch paths.fzf: %w", dc.Name, err)
		}
		arena := fzf.NewArena()
		roots, err := arena.Load(bytes.NewReader(fetched.Data))
		if err != nil {
			return fmt.Errorf("distro %q: decode paths.fzf: %w", dc.Name, err)
		}
		pchars, files, dirs := arena.Stats()
		fmt.Printf("%s: ok roots=%d pchars=%d files=%d dirs=%d digest=%x\n",
			dc.Name, len(roots), pchars, files, dirs, fetched.Digest)
	}
	return nil
}
