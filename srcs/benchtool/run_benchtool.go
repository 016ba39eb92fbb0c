// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package benchtool

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	u "github.com/ctz/junk-drawer/srcs/common"
)

// RunBenchTool allows to run the benchmark log filtering tool.
func RunBenchTool() {

	// Init and parse local arguments
	args := new(u.Arguments)
	p, err := args.InitArguments("--"+u.BENCH,
		"The bench tool filters tab-separated benchmark logs")
	if err != nil {
		u.PrintErr(err)
	}
	local, err := parseLocalArguments(p, u.ToolArgs(os.Args))
	if err != nil {
		u.PrintErr(err)
	}

	switch {
	case local.slice.Happened():
		err = runSlice(local.sliceArgs)
	case local.table.Happened():
		err = runTable(local.tableArgs)
	case local.osl.Happened():
		err = runOsl(local.oslArgs)
	default:
		err = errors.New("one of the slice, table or extract-osl commands is required")
	}
	if err != nil {
		u.PrintErr(err)
	}
}

func runSlice(args *u.Arguments) error {
	rows, err := IterAll(*args.StringArg[fileArg], *args.ListArg[tagArg])
	if err != nil {
		return err
	}
	return WriteSlice(os.Stdout, rows)
}

func runTable(args *u.Arguments) error {
	var columns []*Column
	for _, spec := range *args.ListArg[columnArg] {
		col, err := ParseColumn(spec)
		if err != nil {
			return err
		}
		columns = append(columns, col)
	}

	lines, err := u.ReadLinesFile(*args.StringArg[fileArg])
	if err != nil {
		return err
	}
	FillColumns(lines, columns)
	return WriteTable(os.Stdout, columns)
}

// LoadSections reads extraction sections from a YAML file.
//
// It returns the sections and an error if any, otherwise it returns nil.
func LoadSections(path string) ([]Section, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sections []Section
	if err := yaml.Unmarshal(b, &sections); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sections, nil
}

func runOsl(args *u.Arguments) error {
	sections := DefaultOslSections
	if path := *args.StringArg[sectionsArg]; len(path) > 0 {
		var err error
		if sections, err = LoadSections(path); err != nil {
			return err
		}
	}

	lines, err := u.ReadLinesFile(*args.StringArg[fileArg])
	if err != nil {
		return err
	}
	return ExtractOsl(os.Stdout, lines, sections)
}
