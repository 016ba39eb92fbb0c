// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package ianatool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sergi/go-diff/diffmatchpatch"

	u "github.com/ctz/junk-drawer/srcs/common"
)

// Exported constants of the registry.
const (
	RegistryURL         = "https://www.iana.org/assignments/tls-parameters/tls-parameters-4.csv"
	DefaultRegistryFile = "tls-parameters-4.csv"
)

// ErrOutdated is returned when the checked file differs from the generated
// constants.
var ErrOutdated = errors.New("generated constants differ")

// RunIanaTool allows to run the cipher suite constants generator.
func RunIanaTool(ctx context.Context) {

	// Init and parse local arguments
	args := new(u.Arguments)
	p, err := args.InitArguments("--"+u.IANA,
		"The IANA tool generates TLS cipher suite constants from the IANA registry")
	if err != nil {
		u.PrintErr(err)
	}
	if err := parseLocalArguments(p, args, u.ToolArgs(os.Args)); err != nil {
		u.PrintErr(err)
	}

	// Generated code written on stdout is kept apart from status messages
	if len(*args.StringArg[outputArg]) == 0 && len(*args.StringArg[checkArg]) == 0 {
		u.SetMessageOutput(os.Stderr)
	}

	registry := *args.StringArg[fileArg]
	if *args.BoolArg[fetchArg] {
		if err := u.DownloadFile(ctx, registry, RegistryURL); err != nil {
			u.PrintErr(err)
		}
		u.PrintOk("Registry downloaded into " + registry)
	}

	f, err := os.Open(registry)
	if err != nil {
		u.PrintErr(err)
	}
	suites, err := ReadRegistry(f)
	_ = f.Close()
	if err != nil {
		u.PrintErr(fmt.Errorf("%s: %w", registry, err))
	}

	var buf bytes.Buffer
	if err := Generate(&buf, suites, *args.StringArg[langArg],
		*args.StringArg[packageArg]); err != nil {
		u.PrintErr(err)
	}

	if check := *args.StringArg[checkArg]; len(check) > 0 {
		diff, err := compareOutput(check, buf.String())
		if err != nil {
			u.PrintErr(err)
		}
		if len(diff) > 0 {
			fmt.Println(diff)
			u.PrintErr(fmt.Errorf("%w from %s", ErrOutdated, check))
		}
		u.PrintOk(check + " is up to date")
		return
	}

	if output := *args.StringArg[outputArg]; len(output) > 0 {
		if err := u.WriteToFile(output, buf.Bytes()); err != nil {
			u.PrintErr(err)
		}
		recommended, notable := Select(suites)
		u.PrintOk(fmt.Sprintf("%d recommended and %d notable cipher suites written into %s",
			len(recommended), len(notable), output))
		return
	}
	fmt.Print(buf.String())
}

// compareOutput compares the content of a file with generated text.
//
// It returns a coloured diff (empty when both are equal) and an error if any,
// otherwise it returns nil.
func compareOutput(filename, generated string) (string, error) {
	current, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(string(current), generated, false)
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			return dmp.DiffPrettyText(diffs), nil
		}
	}
	return "", nil
}
