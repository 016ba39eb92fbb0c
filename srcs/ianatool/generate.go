// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package ianatool

import (
	"bytes"
	"fmt"
	"go/format"
	"io"
)

// Output languages.
const (
	LangRust = "rust"
	LangGo   = "go"
)

// DefaultPackage is the package of the generated Go source.
const DefaultPackage = "ciphersuites"

// Generate writes the constants of the recommended suites, a blank line, then
// the constants of the notable non-recommended suites.
//
// It returns an error if any, otherwise it returns nil.
func Generate(w io.Writer, suites []Suite, lang, pkg string) error {
	recommended, notable := Select(suites)

	switch lang {
	case LangRust:
		var buf bytes.Buffer
		writeRustEntries(&buf, recommended)
		buf.WriteByte('\n')
		writeRustEntries(&buf, notable)
		_, err := w.Write(buf.Bytes())
		return err
	case LangGo:
		src, err := goSource(recommended, notable, pkg)
		if err != nil {
			return err
		}
		_, err = w.Write(src)
		return err
	}
	return fmt.Errorf("unknown language %q", lang)
}

// writeDoc writes the documentation of a suite with the given comment marker.
func writeDoc(buf *bytes.Buffer, marker string, s Suite) {
	fmt.Fprintf(buf, "%s The `%s` cipher suite.  Recommended=%s.  Defined in\n",
		marker, s.Name, s.Recommended)
	for _, link := range MassageRef(s.Reference) {
		fmt.Fprintf(buf, "%s <%s>\n", marker, link)
	}
}

func writeRustEntries(buf *bytes.Buffer, suites []Suite) {
	for _, s := range suites {
		writeDoc(buf, "///", s)
		fmt.Fprintf(buf, "%s => 0x%04x,\n\n", s.ConstName(), s.Code)
	}
}

// goSource renders the suites as Go constants and formats the result.
func goSource(recommended, notable []Suite, pkg string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("// Code generated by junk-drawer --iana; DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", pkg)

	for _, group := range []struct {
		doc    string
		suites []Suite
	}{
		{"Cipher suites recommended by IANA.", recommended},
		{"Cipher suites not recommended by IANA but still in use.", notable},
	} {
		if len(group.suites) == 0 {
			continue
		}
		fmt.Fprintf(&buf, "// %s\nconst (\n", group.doc)
		for i, s := range group.suites {
			if i > 0 {
				buf.WriteByte('\n')
			}
			writeDoc(&buf, "//", s)
			fmt.Fprintf(&buf, "%s uint16 = 0x%04x\n", s.ConstName(), s.Code)
		}
		buf.WriteString(")\n\n")
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("cannot format generated source: %w", err)
	}
	return src, nil
}
