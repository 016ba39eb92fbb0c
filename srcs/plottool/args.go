// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package plottool

import (
	"github.com/akamensky/argparse"

	u "github.com/ctz/junk-drawer/srcs/common"
)

const (
	specArg  = "spec"
	chartArg = "chart"
	dirArg   = "dir"
	outArg   = "out"
	listArg  = "list"
)

type localArguments struct {
	render, list *argparse.Command

	renderArgs, listArgs *u.Arguments
}

// parseLocalArguments parses arguments of the application.
//
// It returns the parsed arguments and an error if any, otherwise it returns
// nil.
func parseLocalArguments(p *argparse.Parser, osArgs []string) (*localArguments, error) {

	local := &localArguments{
		render: p.NewCommand("render", "Render benchmark charts as SVG"),
		list:   p.NewCommand(listArg, "List the chart definitions"),

		renderArgs: u.NewArguments(),
		listArgs:   u.NewArguments(),
	}

	for cmd, a := range map[*argparse.Command]*u.Arguments{
		local.render: local.renderArgs,
		local.list:   local.listArgs,
	} {
		a.InitArgParse(cmd, a, u.STRING, "s", specArg,
			&argparse.Options{Required: false, Default: "",
				Help: "YAML chart definitions (default: the built-in charts)"})
	}

	a := local.renderArgs
	a.InitArgParse(local.render, a, u.STRING, "", chartArg,
		&argparse.Options{Required: false, Default: "",
			Help: "Render only this chart (default: all)"})
	a.InitArgParse(local.render, a, u.STRING, "d", dirArg,
		&argparse.Options{Required: false, Default: ".",
			Help: "Directory of the benchmark results"})
	a.InitArgParse(local.render, a, u.STRING, "o", outArg,
		&argparse.Options{Required: false, Default: ".",
			Help: "Directory of the SVG files"})

	return local, u.ParserWrapper(p, osArgs)
}
