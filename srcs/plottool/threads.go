// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package plottool

import (
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/ctz/junk-drawer/srcs/benchtool"
)

var (
	lineWidth  = vg.Points(1)
	gridWidth  = vg.Points(0.1)
	dotDashes  = []vg.Length{vg.Points(1), vg.Points(2)}
	markerSize = vg.Points(1)
)

func newPlot(c *Chart) *plot.Plot {
	p := plot.New()
	p.Title.Text = c.Title
	p.X.Label.Text = c.XLabel
	p.Y.Label.Text = c.YLabel
	return p
}

func newGrid() *plotter.Grid {
	grid := plotter.NewGrid()
	grid.Vertical.Width = gridWidth
	grid.Horizontal.Width = gridWidth
	return grid
}

// threadsPlot draws the measure per thread of every series against the
// threads count, read from benchmark logs under dir.
func threadsPlot(c *Chart, dir string) (*plot.Plot, error) {
	colors, err := seriesColors(c.Series)
	if err != nil {
		return nil, err
	}

	p := newPlot(c)
	p.Add(newGrid())
	p.Legend.Top = true

	for i, s := range c.Series {
		series, err := benchtool.ReadSeries(filepath.Join(dir, s.File), s.Tags)
		if err != nil {
			return nil, err
		}

		line, points, err := plotter.NewLinePoints(series)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Color = colors[i]
		line.LineStyle.Width = lineWidth
		if s.Style == StyleDotted {
			line.LineStyle.Dashes = dotDashes
		}
		points.GlyphStyle.Color = colors[i]
		points.GlyphStyle.Radius = markerSize
		points.GlyphStyle.Shape = draw.CircleGlyph{}

		p.Add(line, points)
		p.Legend.Add(s.Label, line, points)
	}

	if c.Marker > 0 {
		marker, err := plotter.NewLine(plotter.XYs{
			{X: c.Marker, Y: 0},
			{X: c.Marker, Y: p.Y.Max},
		})
		if err != nil {
			return nil, err
		}
		marker.LineStyle.Width = vg.Points(0.5)
		marker.LineStyle.Dashes = dotDashes
		p.Add(marker)
	}

	p.X.Min = 0
	p.Y.Min = 0
	return p, nil
}
