// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package benchtool

import (
	"strings"

	u "github.com/ctz/junk-drawer/srcs/common"
)

// Wildcard is the tag which matches any field.
const Wildcard = "?"

// Exported labels of the fields of a benchmark line.
const (
	ThreadsLabel   = "threads"
	PerThreadLabel = "per-thread"
)

// Eq checks if a field matches a tag.
func Eq(value, tag string) bool {
	return tag == Wildcard || tag == value
}

// Match checks the fields of a line against tags, position by position. Only
// the positions present in both are compared.
func Match(parts, tags []string) bool {
	n := min(len(parts), len(tags))
	for i := 0; i < n; i++ {
		if !Eq(parts[i], tags[i]) {
			return false
		}
	}
	return true
}

// ExtractWhich returns the field following the first field equal to name, or
// def when there is no such field.
func ExtractWhich(name string, parts []string, def string) string {
	for i, p := range parts {
		if p == name {
			if i+1 < len(parts) {
				return parts[i+1]
			}
			return def
		}
	}
	return def
}

// SplitLine removes the line terminator and splits a line on tabs.
func SplitLine(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	return strings.Split(line, "\t")
}

// Filter returns the fields of the non-blank lines which match tags.
func Filter(lines []string, tags []string) [][]string {
	rows := make([][]string, 0)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if parts := SplitLine(line); Match(parts, tags) {
			rows = append(rows, parts)
		}
	}
	return rows
}

// IterAll reads a tab-separated benchmark log and returns the fields of its
// lines which match tags.
//
// It returns the matching lines and an error if any, otherwise it returns nil.
func IterAll(path string, tags []string) ([][]string, error) {
	lines, err := u.ReadLinesFile(path)
	if err != nil {
		return nil, err
	}
	return Filter(lines, tags), nil
}

// Measure returns the threads count of a line ("1" when absent) and its
// measure per thread (the second to last field when absent).
func Measure(parts []string) (threads, perThread string) {
	def := ""
	if len(parts) >= 2 {
		def = parts[len(parts)-2]
	}
	return ExtractWhich(ThreadsLabel, parts, "1"), ExtractWhich(PerThreadLabel, parts, def)
}
