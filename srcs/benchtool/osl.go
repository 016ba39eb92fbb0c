// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package benchtool

import (
	"io"
	"strings"
	"unicode"
)

// Extract locates, after the first line containing Introducer, the first
// line starting with First and the first line starting with Second.
type Extract struct {
	Introducer string `yaml:"introducer"`
	First      string `yaml:"first"`
	Second     string `yaml:"second"`
}

// Section is a titled group of extracts.
type Section struct {
	Title    string    `yaml:"title"`
	Extracts []Extract `yaml:"extracts"`
}

const (
	oslClient = "handshakes\tclient"
	oslServer = "handshakes\tserver"
)

// DefaultOslSections are the measures gathered from an OpenSSL benchmark log:
// bulk throughput, full handshakes and resumed handshakes.
var DefaultOslSections = []Section{
	{
		Title: "bulk column ----",
		Extracts: []Extract{
			{"bulk ECDHE-RSA-AES128-GCM-SHA256", "send", "recv"},
			{"bulk TLS_AES_256_GCM_SHA384", "send", "recv"},
		},
	},
	{
		Title: "handshakes column ----",
		Extracts: []Extract{
			{"handshake ECDHE-RSA-AES256-GCM-SHA384", oslClient, oslServer},
			{"handshake ECDHE-ECDSA-AES256-GCM-SHA384", oslClient, oslServer},
			{"handshake TLS_AES_256_GCM_SHA384", oslClient, oslServer},
			{"--ecdsa handshake TLS_AES_256_GCM_SHA384", oslClient, oslServer},
		},
	},
	{
		Title: "resumption column ----",
		Extracts: []Extract{
			{"handshake-resume ECDHE-RSA-AES256-GCM-SHA384", oslClient, oslServer},
			{"handshake-ticket TLS_AES_256_GCM_SHA384", oslClient, oslServer},
		},
	},
}

// firstNumber returns the first whitespace-separated token of a line which
// starts with a digit.
func firstNumber(line string) (string, bool) {
	for _, item := range strings.Fields(line) {
		if unicode.IsDigit(rune(item[0])) {
			return item, true
		}
	}
	return "", false
}

// run returns the numbers found by the extract.
func (e Extract) run(lines []string) []string {
	var out []string
	inside, doneFirst, doneSecond := false, false, false
	for _, l := range lines {
		if strings.Contains(l, e.Introducer) {
			inside = true
			continue
		}
		if !inside {
			continue
		}
		if !doneFirst && strings.HasPrefix(l, e.First) {
			if n, ok := firstNumber(l); ok {
				out = append(out, n)
			}
			doneFirst = true
		}
		if !doneSecond && strings.HasPrefix(l, e.Second) {
			if n, ok := firstNumber(l); ok {
				out = append(out, n)
			}
			doneSecond = true
		}
	}
	return out
}

// ExtractOsl writes the title of each section followed by the numbers found
// by its extracts, one per line.
//
// It returns an error if any, otherwise it returns nil.
func ExtractOsl(w io.Writer, lines []string, sections []Section) error {
	var sb strings.Builder
	for _, s := range sections {
		sb.WriteString(s.Title + "\n")
		for _, e := range s.Extracts {
			for _, n := range e.run(lines) {
				sb.WriteString(n + "\n")
			}
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
