// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package dependtool

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	u "github.com/ctz/junk-drawer/srcs/common"
)

// Exported errors returned when an external tool output does not have the
// expected layout.
var (
	ErrUnexpectedLdd     = errors.New("unexpected ldd output")
	ErrUnexpectedBinding = errors.New("unexpected binding line")
)

const (
	dynamicMarker = "dynamically linked"
	lddArrow      = " => "
	notFound      = "not found"
	bindingMarker = "binding file"

	// Number of tokens of a binding line which carries a symbol version.
	versionedBindingLen = 12
	// Minimal number of tokens of a binding line: pid, "binding", "file",
	// src, "[0]", "to", dst, "[0]:", "normal", "symbol", sym.
	minBindingLen = 11
)

// ----------------------------------Graph Output-------------------------------

// parseFileOutput parses the output of the 'file' command.
//
// It returns true if the file is dynamically linked, otherwise false.
func parseFileOutput(output string) bool {
	return strings.Contains(output, dynamicMarker)
}

// parseLDD parses the output of the 'ldd' command. Each line which contains
// an arrow must be made of exactly four tokens: soname, arrow, path and load
// address. Libraries that ldd cannot resolve have an empty path.
//
// It returns a map soname -> path and an error if a line does not have the
// expected layout, otherwise it returns nil.
func parseLDD(output string) (map[string]string, error) {
	links := make(map[string]string)
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, lddArrow) {
			continue
		}

		words := strings.Fields(line)
		if len(words) != 4 {
			return nil, fmt.Errorf("%w: %q", ErrUnexpectedLdd, line)
		}

		soname, path := words[0], words[2]
		if path+" "+words[3] == notFound {
			path = ""
		}
		links[soname] = path
	}
	return links, nil
}

// -------------------------------Bindings Output-------------------------------

// trimEnds removes the first and last characters of a token such as
// `symbol' or [VERSION].
func trimEnds(token string) string {
	if len(token) < 2 {
		return ""
	}
	return token[1 : len(token)-1]
}

// parseBinding parses a dynamic linker debug line reporting a binding:
//
//	12345:  binding file /bin/prog [0] to /lib/libssl.so.3 [0]: normal symbol `SSL_new' [OPENSSL_3.0.0]
//
// The layout is fixed: any token other than "normal symbol" before the
// symbol name is an error.
//
// It returns the binding and an error if any, otherwise it returns nil.
func parseBinding(line string) (*u.Binding, error) {
	bits := strings.Fields(line)
	if len(bits) < minBindingLen {
		return nil, fmt.Errorf("%w: %q", ErrUnexpectedBinding, line)
	}

	pid, err := strconv.Atoi(strings.TrimSuffix(bits[0], ":"))
	if err != nil {
		return nil, fmt.Errorf("%w: bad pid in %q", ErrUnexpectedBinding, line)
	}

	binding := &u.Binding{PID: pid, Src: bits[3], Dst: bits[6]}

	var kind, what, sym string
	if len(bits) == versionedBindingLen {
		kind, what, sym = bits[8], bits[9], bits[10]
		vers := trimEnds(bits[11])
		binding.Vers = &vers
	} else {
		n := len(bits)
		kind, what, sym = bits[n-3], bits[n-2], bits[n-1]
	}

	if kind != "normal" || what != "symbol" {
		return nil, fmt.Errorf("%w: expected 'normal symbol', got '%s %s' in %q",
			ErrUnexpectedBinding, kind, what, line)
	}
	binding.Sym = trimEnds(sym)

	return binding, nil
}

// parseBindings parses the whole dynamic linker debug output and keeps the
// bindings whose destination contains match.
//
// It returns the bindings found and an error if a binding line is malformed,
// otherwise it returns nil.
func parseBindings(output, match string) ([]u.Binding, error) {
	bindings := make([]u.Binding, 0)
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, bindingMarker) {
			continue
		}

		u.Logger().Debug("binding", zap.String("line", line))
		binding, err := parseBinding(line)
		if err != nil {
			return nil, err
		}

		if strings.Contains(binding.Dst, match) {
			bindings = append(bindings, *binding)
		}
	}
	return bindings, nil
}
