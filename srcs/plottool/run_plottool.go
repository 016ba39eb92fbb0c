// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package plottool

import (
	"errors"
	"fmt"
	"os"

	u "github.com/ctz/junk-drawer/srcs/common"
)

// RunPlotTool allows to run the benchmark chart renderer.
func RunPlotTool() {

	// Init and parse local arguments
	args := new(u.Arguments)
	p, err := args.InitArguments("--"+u.PLOT,
		"The plot tool renders benchmark results as SVG charts")
	if err != nil {
		u.PrintErr(err)
	}
	local, err := parseLocalArguments(p, u.ToolArgs(os.Args))
	if err != nil {
		u.PrintErr(err)
	}

	switch {
	case local.render.Happened():
		err = runRender(local.renderArgs)
	case local.list.Happened():
		err = runList(local.listArgs)
	default:
		err = errors.New("one of the render or list commands is required")
	}
	if err != nil {
		u.PrintErr(err)
	}
}

func loadChartSet(args *u.Arguments) (*ChartSet, error) {
	if path := *args.StringArg[specArg]; len(path) > 0 {
		return LoadCharts(path)
	}
	return DefaultCharts()
}

func runList(args *u.Arguments) error {
	set, err := loadChartSet(args)
	if err != nil {
		return err
	}
	for _, c := range set.Charts {
		fmt.Printf("%s\t%s\t%s\n", c.Name, c.Kind, c.Output)
	}
	return nil
}

func runRender(args *u.Arguments) error {
	set, err := loadChartSet(args)
	if err != nil {
		return err
	}

	charts := set.Charts
	if name := *args.StringArg[chartArg]; len(name) > 0 {
		c, err := set.Find(name)
		if err != nil {
			return err
		}
		charts = []Chart{*c}
	}

	out := *args.StringArg[outArg]
	if _, err := u.CreateFolder(out); err != nil {
		return err
	}
	for i := range charts {
		path, err := RenderFile(&charts[i], *args.StringArg[dirArg], out)
		if err != nil {
			return err
		}
		u.PrintOk("Chart written to " + path)
	}
	return nil
}
