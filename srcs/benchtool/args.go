// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package benchtool

import (
	"github.com/akamensky/argparse"

	u "github.com/ctz/junk-drawer/srcs/common"
)

const (
	fileArg     = "file"
	tagArg      = "tag"
	columnArg   = "column"
	sectionsArg = "sections"
)

type localArguments struct {
	slice, table, osl *argparse.Command

	sliceArgs, tableArgs, oslArgs *u.Arguments
}

// parseLocalArguments parses arguments of the application.
//
// It returns the parsed arguments and an error if any, otherwise it returns
// nil.
func parseLocalArguments(p *argparse.Parser, osArgs []string) (*localArguments, error) {

	local := &localArguments{
		slice: p.NewCommand("slice",
			"Print the threads count and the measure per thread of matching lines"),
		table: p.NewCommand("table",
			"Print the measures of several groups of lines side by side"),
		osl: p.NewCommand("extract-osl",
			"Extract throughput and handshake rates from an OpenSSL benchmark log"),
		sliceArgs: u.NewArguments(),
		tableArgs: u.NewArguments(),
		oslArgs:   u.NewArguments(),
	}

	s := local.sliceArgs
	s.InitArgParse(local.slice, s, u.STRING, "i", fileArg,
		&argparse.Options{Required: true, Help: "Tab-separated benchmark log"})
	s.InitArgParse(local.slice, s, u.LIST, "t", tagArg,
		&argparse.Options{Required: false, Default: []string{},
			Help: "Expected value of the next field, '" + Wildcard +
				"' matches anything (repeatable, in field order)"})

	t := local.tableArgs
	t.InitArgParse(local.table, t, u.STRING, "i", fileArg,
		&argparse.Options{Required: true, Help: "Tab-separated benchmark log"})
	t.InitArgParse(local.table, t, u.LIST, "c", columnArg,
		&argparse.Options{Required: true,
			Help: "Column as 'head=tag tag ...' (repeatable)"})

	o := local.oslArgs
	o.InitArgParse(local.osl, o, u.STRING, "i", fileArg,
		&argparse.Options{Required: true, Help: "OpenSSL benchmark log"})
	o.InitArgParse(local.osl, o, u.STRING, "", sectionsArg,
		&argparse.Options{Required: false, Default: "",
			Help: "YAML file replacing the default sections"})

	return local, u.ParserWrapper(p, osArgs)
}
