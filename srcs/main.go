// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ctz/junk-drawer/srcs/alphaesstool"
	"github.com/ctz/junk-drawer/srcs/benchtool"
	u "github.com/ctz/junk-drawer/srcs/common"
	"github.com/ctz/junk-drawer/srcs/dependtool"
	"github.com/ctz/junk-drawer/srcs/dertool"
	"github.com/ctz/junk-drawer/srcs/ianatool"
	"github.com/ctz/junk-drawer/srcs/plottool"
)

func main() {

	// Init global arguments
	args := new(u.Arguments)
	parser, err := args.InitArguments("The junk drawer",
		"Assorted tools for TLS library analysis, benchmarking and home energy data")
	if err != nil {
		u.PrintErr(err)
	}

	// Parse arguments
	if err := args.ParseMainArguments(parser, args); err != nil {
		u.PrintErr(err)
	}

	if err := u.InitLogger(*args.BoolArg[u.VERBOSE]); err != nil {
		u.PrintErr(err)
	}
	defer u.SyncLogger()

	tool, err := args.SelectedTool()
	if err != nil {
		u.PrintErr(err)
	}

	// Cancel blocking operations on interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Tools writing data to stdout print no header, or print it on stderr
	switch tool {
	case u.DEP:
		dependtool.RunDependTool(ctx)
	case u.ALPHAESS:
		alphaesstool.RunAlphaEssTool(ctx)
	case u.IANA:
		ianatool.RunIanaTool(ctx)
	case u.BENCH:
		benchtool.RunBenchTool()
	case u.PLOT:
		u.PrintHeader1("(*) RUN BENCHMARK CHART RENDERER")
		plottool.RunPlotTool()
	case u.DER:
		u.PrintHeader1("(*) RUN DER STRUCTURE DUMPER")
		dertool.RunDerTool()
	}
}
