// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/antgroup/fzfserve/pkg/version"
	"github.com/sirupsen/logrus"
)

// App is the fzf-serve command-line surface: serve the HTTP search
// service, validate an index file without serving, or benchmark a fixed
// query against every loaded distro.
type App struct {
	Globals
	Serve     ServeCmd     `cmd:"serve" help:"Run the fzf search HTTP service"`
	LoadCheck LoadCheckCmd `cmd:"load-check" help:"Validate an index file and report pool sizes"`
	Bench     BenchCmd     `cmd:"bench" help:"Benchmark a fixed query against every loaded distro"`
}

func main() {
	var app App
	ctx := kong.Parse(&app,
		kong.Name("fzf-serve"),
		kong.Description("Fuzzy path search service over a precomputed directory index"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version.GetVersionString()},
	)
	if app.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}
	now := time.Now()
	err := ctx.Run(&app.Globals)
	if app.Verbose {
		logrus.Debugf("time spent: %v", time.Since(now))
	}
	if err != nil {
		logrus.Errorf("%v", err)
		os.Exit(1)
	}
}
