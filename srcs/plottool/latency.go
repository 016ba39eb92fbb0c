// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package plottool

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgsvg"

	u "github.com/ctz/junk-drawer/srcs/common"
)

// ReadLatencies reads the second whitespace-separated field of every non
// blank line of a latency log, in microseconds.
//
// It returns the latencies and an error if any, otherwise it returns nil.
func ReadLatencies(path string) ([]float64, error) {
	lines, err := u.ReadLinesFile(path)
	if err != nil {
		return nil, err
	}

	var samples []float64
	for i, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("%s:%d: no latency field", path, i+1)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, i+1, err)
		}
		samples = append(samples, v)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%s: no latencies", path)
	}
	return samples, nil
}

// binEdges returns n+1 equally spaced edges covering every sample.
func binEdges(samples [][]float64, n int) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range samples {
		lo = math.Min(lo, floats.Min(s))
		hi = math.Max(hi, floats.Max(s))
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	edges := make([]float64, n+1)
	floats.Span(edges, lo, hi)
	return edges
}

// histogramBins counts the samples falling in each bin. The last bin is
// closed on both sides.
func histogramBins(samples, edges []float64) []plotter.HistogramBin {
	n := len(edges) - 1
	bins := make([]plotter.HistogramBin, n)
	for i := range bins {
		bins[i].Min, bins[i].Max = edges[i], edges[i+1]
	}

	width := edges[1] - edges[0]
	for _, v := range samples {
		i := int((v - edges[0]) / width)
		if i >= n {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}
		bins[i].Weight++
	}
	return bins
}

// LatencyStats summarises a latency distribution.
type LatencyStats struct {
	Min, Mean, StdDev, Max float64
}

func latencyStats(samples []float64) LatencyStats {
	return LatencyStats{
		Min:    floats.Min(samples),
		Mean:   stat.Mean(samples, nil),
		StdDev: math.Sqrt(stat.PopVariance(samples, nil)),
		Max:    floats.Max(samples),
	}
}

// Lines returns the legend lines of the statistics.
func (s LatencyStats) Lines() []string {
	return []string{
		"min: " + micros(s.Min),
		"mean: " + micros(s.Mean),
		"std dev: " + micros(s.StdDev),
		"max: " + micros(s.Max),
	}
}

func micros(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64) + "μs"
}

// latencyPlots draws one log-scale histogram per series, all sharing the
// same bins and x range.
func latencyPlots(c *Chart, dir string, colors []color.Color) ([]*plot.Plot, error) {
	samples := make([][]float64, len(c.Series))
	for i, s := range c.Series {
		var err error
		if samples[i], err = ReadLatencies(filepath.Join(dir, s.File)); err != nil {
			return nil, err
		}
	}
	edges := binEdges(samples, c.Bins)

	plots := make([]*plot.Plot, len(c.Series))
	for i, s := range c.Series {
		p := plot.New()
		grid := newGrid()
		grid.Horizontal.Color = nil
		p.Add(grid)

		hist := &plotter.Histogram{
			Bins:      histogramBins(samples[i], edges),
			Width:     edges[1] - edges[0],
			FillColor: colors[i],
			LineStyle: draw.LineStyle{Color: colors[i], Width: vg.Points(0.5)},
			LogY:      true,
		}
		p.Add(hist)

		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
		p.Y.Min = 1
		p.Y.Max = math.Max(p.Y.Max, 10)
		p.X.Min = 0
		p.X.Max = edges[len(edges)-1]

		p.Legend.Top = true
		p.Legend.Add(s.Label, hist)
		for _, line := range latencyStats(samples[i]).Lines() {
			p.Legend.Add(line)
		}
		plots[i] = p
	}

	plots[0].Title.Text = c.Title
	plots[(len(plots)-1)/2].Y.Label.Text = c.YLabel
	plots[len(plots)-1].X.Label.Text = c.XLabel
	return plots, nil
}

// writeLatency stacks the histograms of a latency chart into one SVG.
func writeLatency(w io.Writer, c *Chart, dir string) error {
	colors, err := seriesColors(c.Series)
	if err != nil {
		return err
	}
	plots, err := latencyPlots(c, dir, colors)
	if err != nil {
		return err
	}

	rows := make([][]*plot.Plot, len(plots))
	for i, p := range plots {
		rows[i] = []*plot.Plot{p}
	}

	img := vgsvg.New(vg.Length(c.Width)*vg.Inch, vg.Length(c.Height)*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      1,
		PadY:      vg.Points(4),
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(4),
	}
	canvases := plot.Align(rows, tiles, dc)
	for i := range rows {
		rows[i][0].Draw(canvases[i][0])
	}

	_, err = img.WriteTo(w)
	return err
}
