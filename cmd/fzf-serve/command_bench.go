// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/antgroup/fzfserve/internal/config"
	"github.com/antgroup/fzfserve/internal/fzf"
	"github.com/antgroup/fzfserve/internal/indexsource"
	"github.com/mattn/go-isatty"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// BenchCmd loads every configured distro and repeatedly walks a fixed
// query against each, reporting p50/p99 latency. It replaces the
// original process's --benchmark flag with a report in terms of this
// implementation's own percentile math.
type BenchCmd struct {
	Config     string `short:"c" name:"config" help:"Location of the server config file" default:"fzf-serve.toml" type:"path"`
	Query      string `arg:"" name:"query" help:"Query string to benchmark"`
	Iterations int    `short:"n" name:"iterations" help:"Number of search iterations per distro" default:"1000"`
}

func (c *BenchCmd) Run(g *Globals) error {
	cfg, err := config.Load(c.Config, g.ExpandEnv)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	q, err := fzf.NewQuery(c.Query)
	if err != nil {
		return fmt.Errorf("compile query %q: %w", c.Query, err)
	}

	ctx := context.Background()
	quiet := !isatty.IsTerminal(os.Stdout.Fd())
	var p *mpb.Progress
	if !quiet {
		p = mpb.New(mpb.WithOutput(os.Stderr), mpb.WithAutoRefresh())
	}

	for _, dc := range cfg.Distros {
		src, err := indexsource.New(dc.PathsSource)
		if err != nil {
			return fmt.Errorf("distro %q: %w", dc.Name, err)
		}
		fetched, err := indexsource.Load(ctx, src, dc.PathsSource.Compressed)
		if err != nil {
			return fmt.Errorf("distro %q: fetch: %w", dc.Name, err)
		}
		arena := fzf.NewArena()
		roots, err := arena.Load(bytes.NewReader(fetched.Data))
		if err != nil {
			return fmt.Errorf("distro %q: decode: %w", dc.Name, err)
		}

		var bar *mpb.Bar
		if p != nil {
			bar = p.New(int64(c.Iterations),
				mpb.BarStyle().Filler("#").Padding(" "),
				mpb.PrependDecorators(decor.Name(dc.Name)),
				mpb.AppendDecorators(decor.Percentage()),
			)
		}

		samples := make([]time.Duration, 0, c.Iterations)
		for i := 0; i < c.Iterations; i++ {
			start := time.Now()
			if _, err := fzf.Search(arena, roots, q, cfg.MaxResults); err != nil {
				return fmt.Errorf("distro %q: search: %w", dc.Name, err)
			}
			samples = append(samples, time.Since(start))
			if bar != nil {
				bar.Increment()
			}
		}
		if bar != nil {
			bar.Abort(false)
		}

		reportPercentiles(dc.Name, samples)
	}
	if p != nil {
		p.Wait()
	}
	return nil
}

func reportPercentiles(name string, samples []time.Duration) {
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	p50 := samples[len(samples)*50/100]
	p99 := samples[min(len(samples)*99/100, len(samples)-1)]
	fmt.Printf("%s: n=%d p50=%v p99=%v\n", name, len(samples), p50, p99)
}
