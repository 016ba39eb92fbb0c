// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package dertool

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	u "github.com/ctz/junk-drawer/srcs/common"
)

// RunDerTool allows to run the DER key structure dumper.
func RunDerTool() {

	// Init and parse local arguments
	args := new(u.Arguments)
	p, err := args.InitArguments("--"+u.DER,
		"The DER tool decodes RSA and EC key structures")
	if err != nil {
		u.PrintErr(err)
	}
	local, err := parseLocalArguments(p, u.ToolArgs(os.Args))
	if err != nil {
		u.PrintErr(err)
	}

	if !local.dump.Happened() {
		u.PrintErr(errors.New("the dump command is required"))
	}
	if err := runDump(local.dumpArgs); err != nil {
		u.PrintErr(err)
	}
}

func runDump(args *u.Arguments) error {
	path := *args.StringArg[fileArg]
	input, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	st, typ, err := Decode(input, *args.StringArg[typeArg])
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	u.Logger().Debug("decoded structure", zap.String("file", path),
		zap.String("type", typ), zap.Int("size", len(input)))

	if err := Dump(os.Stdout, st); err != nil {
		return err
	}
	u.PrintOk(path + " re-encodes identically as " + typ)
	return nil
}
