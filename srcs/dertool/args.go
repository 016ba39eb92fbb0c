// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package dertool

import (
	"strings"

	"github.com/akamensky/argparse"

	u "github.com/ctz/junk-drawer/srcs/common"
)

const (
	fileArg = "file"
	typeArg = "type"
)

type localArguments struct {
	dump *argparse.Command

	dumpArgs *u.Arguments
}

// parseLocalArguments parses arguments of the application.
//
// It returns the parsed arguments and an error if any, otherwise it returns
// nil.
func parseLocalArguments(p *argparse.Parser, osArgs []string) (*localArguments, error) {

	local := &localArguments{
		dump: p.NewCommand("dump",
			"Decode a PEM or DER key, print its structure and check its re-encoding"),
		dumpArgs: u.NewArguments(),
	}

	d := local.dumpArgs
	d.InitArgParse(local.dump, d, u.STRING, "i", fileArg,
		&argparse.Options{Required: true, Help: "PEM or DER file"})
	d.InitArgParse(local.dump, d, u.STRING, "t", typeArg,
		&argparse.Options{Required: false, Default: "",
			Help: "Structure of the file: " + strings.Join(Types, ", ") +
				" (default: from the PEM header, else the first that decodes)"})

	return local, u.ParserWrapper(p, osArgs)
}
