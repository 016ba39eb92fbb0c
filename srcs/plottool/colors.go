// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package plottool

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot/plotutil"
)

// parseHexColor parses a "#rrggbb" colour.
func parseHexColor(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok || len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("colour %q is not #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// seriesColors picks a colour for every series of a chart: an explicit
// colour wins, then the colour of the referenced series, then the next
// colour of the default palette.
func seriesColors(series []SeriesSpec) ([]color.Color, error) {
	colors := make([]color.Color, len(series))
	next := 0
	for i, s := range series {
		switch {
		case s.Color != "":
			c, err := parseHexColor(s.Color)
			if err != nil {
				return nil, err
			}
			colors[i] = c
		case s.SameColorAs != nil:
			colors[i] = colors[*s.SameColorAs]
		default:
			colors[i] = plotutil.Color(next)
			next++
		}
	}
	return colors, nil
}
