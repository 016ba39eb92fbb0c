// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package dependtool

import (
	"github.com/akamensky/argparse"

	u "github.com/ctz/junk-drawer/srcs/common"
)

const (
	rootArg     = "root"
	skipArg     = "skip"
	outputArg   = "output"
	workersArg  = "workers"
	nativeArg   = "native"
	fullDepsArg = "fullDeps"
	forceArg    = "force"
	dotArg      = "dot"

	graphArg   = "graph"
	libraryArg = "library"

	programArg = "program"
	argArg     = "arg"
	dataArg    = "data"
	matchArg   = "match"
	timeoutArg = "timeout"
	ptyArg     = "pty"
)

// Exported constants of the dependency tool.
const (
	DefaultLibraryPrefix = "libssl.so"
	DefaultBindingMatch  = "libssl"
)

// DefaultSkipPrefixes are the path prefixes never walked by the graph builder.
var DefaultSkipPrefixes = []string{"/snap", "/home", "/proc", "/sys"}

type localArguments struct {
	graph, uses, bindings *argparse.Command

	graphArgs, usesArgs, bindingsArgs *u.Arguments
}

// parseLocalArguments parses arguments of the application.
//
// It returns the parsed arguments and an error if any, otherwise it returns
// nil.
func parseLocalArguments(p *argparse.Parser, osArgs []string) (*localArguments, error) {

	local := &localArguments{
		graph: p.NewCommand("graph", "Build the shared-library graph of "+
			"every executable of a filesystem"),
		uses: p.NewCommand("uses", "List the executables which depend "+
			"(transitively) on a library"),
		bindings: p.NewCommand("bindings", "Trace the symbols a program binds "+
			"from a library with the dynamic linker debug output"),
		graphArgs:    u.NewArguments(),
		usesArgs:     u.NewArguments(),
		bindingsArgs: u.NewArguments(),
	}

	g := local.graphArgs
	g.InitArgParse(local.graph, g, u.STRING, "r", rootArg,
		&argparse.Options{Required: false, Default: "/",
			Help: "Root folder to walk"})
	g.InitArgParse(local.graph, g, u.LIST, "s", skipArg,
		&argparse.Options{Required: false, Default: DefaultSkipPrefixes,
			Help: "Path prefixes to skip (repeatable)"})
	g.InitArgParse(local.graph, g, u.STRING, "o", outputArg,
		&argparse.Options{Required: false, Default: "graph.json",
			Help: "Output JSON file"})
	g.InitArgParse(local.graph, g, u.INT, "w", workersArg,
		&argparse.Options{Required: false, Default: 1,
			Help: "Number of executables analysed concurrently"})
	g.InitArgParse(local.graph, g, u.BOOL, "", nativeArg,
		&argparse.Options{Required: false, Default: false,
			Help: "Classify executables by reading their ELF header instead of running 'file'"})
	g.InitArgParse(local.graph, g, u.BOOL, "", fullDepsArg,
		&argparse.Options{Required: false, Default: false,
			Help: "Also record the dependencies of dependencies"})
	g.InitArgParse(local.graph, g, u.BOOL, "", forceArg,
		&argparse.Options{Required: false, Default: false,
			Help: "Overwrite the output file without asking"})
	g.InitArgParse(local.graph, g, u.STRING, "", dotArg,
		&argparse.Options{Required: false, Default: "",
			Help: "Also save the graph as a dot file (path without extension)"})

	us := local.usesArgs
	us.InitArgParse(local.uses, us, u.STRING, "g", graphArg,
		&argparse.Options{Required: false, Default: "graph.json",
			Help: "Graph JSON file produced by the graph command"})
	us.InitArgParse(local.uses, us, u.STRING, "l", libraryArg,
		&argparse.Options{Required: false, Default: DefaultLibraryPrefix,
			Help: "Soname prefix of the library"})
	us.InitArgParse(local.uses, us, u.STRING, "", dotArg,
		&argparse.Options{Required: false, Default: "",
			Help: "Save the users of the library as a dot file (path without extension)"})

	b := local.bindingsArgs
	b.InitArgParse(local.bindings, b, u.STRING, "p", programArg,
		&argparse.Options{Required: true, Help: "Program to trace"})
	b.InitArgParse(local.bindings, b, u.LIST, "a", argArg,
		&argparse.Options{Required: false, Default: []string{"-v"},
			Help: "Argument given to the program (repeatable)"})
	b.InitArgParse(local.bindings, b, u.STRING, "d", dataArg,
		&argparse.Options{Required: false, Default: "data.json",
			Help: "JSON file where bindings are accumulated"})
	b.InitArgParse(local.bindings, b, u.STRING, "m", matchArg,
		&argparse.Options{Required: false, Default: DefaultBindingMatch,
			Help: "Keep bindings whose destination path contains this string"})
	b.InitArgParse(local.bindings, b, u.FLOAT, "t", timeoutArg,
		&argparse.Options{Required: false, Default: 2.0,
			Help: "Time (sec) after which the program is killed"})
	b.InitArgParse(local.bindings, b, u.BOOL, "", ptyArg,
		&argparse.Options{Required: false, Default: false,
			Help: "Run the program on a pseudo-terminal"})

	return local, u.ParserWrapper(p, osArgs)
}
