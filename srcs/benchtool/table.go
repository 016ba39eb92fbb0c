// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package benchtool

import (
	"fmt"
	"io"
	"strings"
)

const sliceHeader = "threads\thandshake per sec per core"

// WriteSlice writes the threads count and the measure per thread of each row.
//
// It returns an error if any, otherwise it returns nil.
func WriteSlice(w io.Writer, rows [][]string) error {
	var sb strings.Builder
	sb.WriteString(sliceHeader + "\n")
	for _, parts := range rows {
		threads, perThread := Measure(parts)
		sb.WriteString(threads + "\t" + perThread + "\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Point is the measure of a line for a threads count.
type Point struct {
	Threads string
	Measure string
}

// Column is a column of a table: the lines matching Tags.
type Column struct {
	Head   string
	Tags   []string
	Points []Point
}

// ParseColumn parses a column definition "head=tag tag ...".
//
// It returns the column and an error if any, otherwise it returns nil.
func ParseColumn(spec string) (*Column, error) {
	parts := strings.Split(spec, "=")
	if len(parts) != 2 {
		return nil, fmt.Errorf("column %q must be in the form head=tags", spec)
	}
	return &Column{Head: parts[0], Tags: strings.Fields(parts[1])}, nil
}

// Lookup returns the measure of the first point of threads, or def.
func (c *Column) Lookup(threads, def string) string {
	for _, p := range c.Points {
		if p.Threads == threads {
			return p.Measure
		}
	}
	return def
}

// FillColumns adds the measure of each non-blank line to every column it
// matches.
func FillColumns(lines []string, columns []*Column) {
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := SplitLine(line)
		for _, col := range columns {
			if Match(parts, col.Tags) {
				threads, measure := Measure(parts)
				col.Points = append(col.Points, Point{Threads: threads, Measure: measure})
			}
		}
	}
}

// WriteTable writes one row per point of the first column: its threads count
// followed by the measure of each column for that count ("0" when missing).
//
// It returns an error if any, otherwise it returns nil.
func WriteTable(w io.Writer, columns []*Column) error {
	if len(columns) == 0 {
		return fmt.Errorf("at least one column is required")
	}

	heads := make([]string, 0, len(columns))
	for _, col := range columns {
		heads = append(heads, col.Head)
	}

	var sb strings.Builder
	sb.WriteString("threads\t" + strings.Join(heads, "\t") + "\n")
	for _, p := range columns[0].Points {
		cells := make([]string, 0, len(columns))
		for _, col := range columns {
			cells = append(cells, col.Lookup(p.Threads, "0"))
		}
		sb.WriteString(p.Threads + "\t" + strings.Join(cells, "\t") + "\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
