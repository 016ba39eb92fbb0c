// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package ianatool

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ErrUnassignable is returned for registry codes which denote a range or a
// wildcard rather than a single cipher suite.
var ErrUnassignable = errors.New("code is not a single cipher suite")

const refURL = "https://www.iana.org/go/"

// Suite is a cipher suite of the IANA TLS parameters registry.
type Suite struct {
	Code uint16
	Name string
	// Recommended is the raw value of the Recommended column.
	Recommended string
	Reference   string
}

// IsRecommended checks if IANA recommends the suite.
func (s Suite) IsRecommended() bool {
	return s.Recommended == "Y"
}

// ConstName returns the name of the suite. Suites specific to TLS 1.3 are
// prefixed with TLS13_.
func (s Suite) ConstName() string {
	if s.Code&0xff00 == 0x1300 {
		return strings.ReplaceAll(s.Name, "TLS_", "TLS13_")
	}
	return s.Name
}

// MassageCode converts a registry value such as "0x13,0x01" to a code.
//
// It returns the code and ErrUnassignable for ranges and wildcards, or
// another error if the value is malformed, otherwise it returns nil.
func MassageCode(code string) (uint16, error) {
	if strings.Contains(code, "-") || strings.Contains(code, "*") ||
		!strings.HasPrefix(code, "0x") {
		return 0, ErrUnassignable
	}

	hi, lo, ok := strings.Cut(code, ",")
	if !ok || strings.Contains(lo, ",") {
		return 0, fmt.Errorf("malformed code %q", code)
	}
	h, err := strconv.ParseUint(strings.TrimSpace(hi), 0, 8)
	if err != nil {
		return 0, fmt.Errorf("malformed code %q: %w", code, err)
	}
	l, err := strconv.ParseUint(strings.TrimSpace(lo), 0, 8)
	if err != nil {
		return 0, fmt.Errorf("malformed code %q: %w", code, err)
	}
	return uint16(h)<<8 | uint16(l), nil
}

// Notable checks if a non-recommended suite is still worth a constant. Nation
// state, ancient and odd suites are not, nor are drafts with unclear adoption.
func Notable(name string) bool {
	for _, part := range []string{
		// nation state
		"_CAMELLIA_", "_ARIA_", "GOSTR", "_SM4",
		// ancient
		"_SEED_", "_KRB", "DH_anon", "_RC4", "_DH_", "_DSS_", "_DES_", "_IDEA_",
		"_3DES_", "_ECDH_",
		// odd
		"ECCPWD", "_EXPORT_", "_SRP_", "_NULL_",
		// drafts
		"_AEGIS_",
	} {
		if strings.Contains(name, part) {
			return false
		}
	}
	return true
}

// MassageRef converts a reference such as "[RFC8446][RFC9150]" to links.
// References holding a space (people, notes) are dropped.
func MassageRef(ref string) []string {
	links := make([]string, 0)
	for _, r := range strings.Split(strings.ReplaceAll(ref, "[", ""), "]") {
		if len(r) == 0 || strings.Contains(r, " ") {
			continue
		}
		links = append(links, refURL+strings.ToLower(r))
	}
	return links
}

// ReadRegistry reads the CSV export of the registry. Every row must have the
// five columns Value, Description, DTLS-OK, Recommended and Reference. Rows
// without a single code and reserved or unassigned codes are dropped; when a
// code appears twice the last row wins.
//
// It returns the suites sorted by code and an error if any, otherwise it
// returns nil.
func ReadRegistry(r io.Reader) ([]Suite, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 5

	byCode := make(map[uint16]Suite)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		value, name, rec, ref := row[0], row[1], row[3], row[4]
		code, err := MassageCode(value)
		if errors.Is(err, ErrUnassignable) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if name == "Reserved" || name == "Unassigned" {
			continue
		}
		byCode[code] = Suite{Code: code, Name: name, Recommended: rec, Reference: ref}
	}

	suites := make([]Suite, 0, len(byCode))
	for _, s := range byCode {
		suites = append(suites, s)
	}
	sort.Slice(suites, func(i, j int) bool { return suites[i].Code < suites[j].Code })
	return suites, nil
}

// Select returns the recommended suites and the notable non-recommended
// ones, both in the order of suites.
func Select(suites []Suite) (recommended, notable []Suite) {
	for _, s := range suites {
		switch {
		case s.IsRecommended():
			recommended = append(recommended, s)
		case Notable(s.Name):
			notable = append(notable, s)
		}
	}
	return recommended, notable
}
