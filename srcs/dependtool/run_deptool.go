// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package dependtool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"

	u "github.com/ctz/junk-drawer/srcs/common"
)

// RunDependTool allows to run the shared-library dependency tool.
func RunDependTool(ctx context.Context) {

	// Support only Linux (ldd and the dynamic linker debug output)
	if strings.ToLower(runtime.GOOS) != "linux" {
		u.PrintErr("only the linux platform is supported")
	}

	// Init and parse local arguments
	args := new(u.Arguments)
	p, err := args.InitArguments("--"+u.DEP,
		"The dependency tool finds which executables use a shared library")
	if err != nil {
		u.PrintErr(err)
	}
	local, err := parseLocalArguments(p, u.ToolArgs(os.Args))
	if err != nil {
		u.PrintErr(err)
	}

	// uses and bindings print their results on stdout
	if !local.graph.Happened() {
		u.SetMessageOutput(os.Stderr)
	}
	u.PrintHeader1("(*) RUN SHARED LIBRARY DEPENDENCY TOOL")

	switch {
	case local.graph.Happened():
		u.PrintHeader2("(1) Build the shared-library graph")
		err = runGraph(ctx, local.graphArgs)
	case local.uses.Happened():
		u.PrintHeader2("(1) Find the users of the library")
		err = runUses(os.Stdout, local.usesArgs)
	case local.bindings.Happened():
		u.PrintHeader2("(1) Trace the bindings of the program")
		err = runBindings(ctx, os.Stdout, local.bindingsArgs)
	default:
		err = errors.New("one of the graph, uses or bindings commands is required")
	}
	if err != nil {
		u.PrintErr(err)
	}
}

// confirmOverwrite asks the user whether an existing file can be replaced.
var confirmOverwrite = func(path string) (bool, error) {
	overwrite := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%s already exists. Overwrite it?", path),
		Default: false,
	}
	if err := survey.AskOne(prompt, &overwrite); err != nil {
		return false, err
	}
	return overwrite, nil
}

func runGraph(ctx context.Context, args *u.Arguments) error {

	output := u.TrimJsonExt(*args.StringArg[outputArg])
	path := output + ".json"
	if u.Exists(path) && !*args.BoolArg[forceArg] {
		overwrite, err := confirmOverwrite(path)
		if err != nil {
			return err
		}
		if !overwrite {
			u.PrintWarning("Graph not saved: " + path + " is kept")
			return nil
		}
	}

	var classifier Classifier = FileClassifier{}
	if *args.BoolArg[nativeArg] {
		classifier = ElfClassifier{}
	}

	builder, err := NewGraphBuilder(*args.StringArg[rootArg], *args.ListArg[skipArg],
		classifier)
	if err != nil {
		return err
	}
	builder.Workers = *args.IntArg[workersArg]
	builder.FullDeps = *args.BoolArg[fullDepsArg]

	start := time.Now()
	graph, err := builder.Build(ctx)
	if err != nil {
		return err
	}
	u.PrintInfo(fmt.Sprintf("%d dynamically linked executables analysed in %s",
		len(graph.Dyns), time.Since(start).Round(time.Millisecond)))

	if err := u.RecordDataJson(output, graph); err != nil {
		return err
	}
	u.PrintOk("Graph saved into " + path)

	if dot := *args.StringArg[dotArg]; len(dot) > 0 {
		return u.GenerateGraph("dylibs", dot, linksGraph(graph), nil)
	}
	return nil
}

// linksGraph converts the links of a graph into dot edges. Unresolved
// libraries are represented by their soname.
func linksGraph(graph *u.DylibGraph) map[string][]string {
	data := make(map[string][]string, len(graph.Links))
	for path, deps := range graph.Links {
		edges := make([]string, 0, len(deps))
		for _, soname := range sortedKeys(deps) {
			if target := deps[soname]; len(target) > 0 {
				edges = append(edges, target)
			} else {
				edges = append(edges, soname)
			}
		}
		data[path] = edges
	}
	return data
}

func runUses(w io.Writer, args *u.Arguments) error {

	graph := u.NewDylibGraph()
	graphFile := *args.StringArg[graphArg]
	if err := u.ReadDataJson(u.TrimJsonExt(graphFile), graph); err != nil {
		return err
	}

	checker := NewUsageChecker(graph, *args.StringArg[libraryArg])
	users := checker.Users()
	for _, user := range users {
		fmt.Fprintln(w, user)
	}

	for _, cycle := range checker.Cycles() {
		u.PrintWarning("dependency cycle: " + strings.Join(cycle, " -> "))
	}
	u.PrintInfo(fmt.Sprintf("%d of %d dynamically linked executables use %s*",
		len(users), len(graph.Dyns), *args.StringArg[libraryArg]))

	if dot := *args.StringArg[dotArg]; len(dot) > 0 {
		data, colours := checker.UsersGraph()
		return u.GenerateGraph("users", dot, data, colours)
	}
	return nil
}

func runBindings(ctx context.Context, w io.Writer, args *u.Arguments) error {

	program := *args.StringArg[programArg]
	dataFile := *args.StringArg[dataArg]

	data, err := loadBindingData(dataFile)
	if err != nil {
		return err
	}

	timeout := time.Duration(*args.FloatArg[timeoutArg] * float64(time.Second))
	tracer := NewTracer(*args.StringArg[matchArg], *args.ListArg[argArg], timeout,
		*args.BoolArg[ptyArg])

	bindings, err := tracer.Trace(ctx, program)
	if err != nil {
		return err
	}

	for _, b := range bindings {
		vers := ""
		if b.Vers != nil {
			vers = "@" + *b.Vers
		}
		fmt.Fprintf(w, "%s -> %s: %s\n", filepath.Base(b.Src), filepath.Base(b.Dst),
			color.CyanString(b.Sym+vers))
	}

	data[program] = bindings
	if err := saveBindingData(dataFile, data); err != nil {
		return err
	}
	u.PrintOk(fmt.Sprintf("%d bindings of %s saved into %s", len(bindings), program,
		dataFile))
	return nil
}
