// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package ianatool

import (
	"github.com/akamensky/argparse"

	u "github.com/ctz/junk-drawer/srcs/common"
)

const (
	fileArg    = "file"
	fetchArg   = "fetch"
	langArg    = "lang"
	packageArg = "package"
	outputArg  = "output"
	checkArg   = "check"
)

// parseLocalArguments parses arguments of the application.
//
// It returns an error if any, otherwise it returns nil.
func parseLocalArguments(p *argparse.Parser, args *u.Arguments, osArgs []string) error {

	args.InitArgParse(p, args, u.STRING, "i", fileArg,
		&argparse.Options{Required: false, Default: DefaultRegistryFile,
			Help: "CSV export of the TLS cipher suite registry"})
	args.InitArgParse(p, args, u.BOOL, "", fetchArg,
		&argparse.Options{Required: false, Default: false,
			Help: "Download the registry from " + RegistryURL + " into --file first"})
	args.InitArgParse(p, args, u.STRING, "l", langArg,
		&argparse.Options{Required: false, Default: LangRust,
			Help: "Language of the generated constants: rust or go"})
	args.InitArgParse(p, args, u.STRING, "", packageArg,
		&argparse.Options{Required: false, Default: DefaultPackage,
			Help: "Package of the generated Go source"})
	args.InitArgParse(p, args, u.STRING, "o", outputArg,
		&argparse.Options{Required: false, Default: "",
			Help: "Write the constants into this file instead of stdout"})
	args.InitArgParse(p, args, u.STRING, "", checkArg,
		&argparse.Options{Required: false, Default: "",
			Help: "Fail if the constants differ from the content of this file"})

	return u.ParserWrapper(p, osArgs)
}
