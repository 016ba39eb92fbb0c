// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package plottool

import (
	"image/color"
	"math"
	"path/filepath"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

const (
	kdePoints      = 100
	violinHalfSize = 0.5
)

// violin draws a horizontal kernel density estimate of a distribution
// centred on y = pos, with its median marked.
type violin struct {
	pos    float64
	median float64
	xs     []float64
	half   []float64

	fill        color.Color
	medianStyle draw.LineStyle
}

func newViolin(s *Samples, pos float64, fill color.Color) *violin {
	v := &violin{
		pos:    pos,
		median: stat.Quantile(0.5, stat.Empirical, s.Values, s.Weights),
		fill:   fill,
		medianStyle: draw.LineStyle{
			Color: color.Black,
			Width: vg.Points(1),
		},
	}

	lo, hi := s.Values[0], s.Values[len(s.Values)-1]
	if lo == hi {
		v.xs = []float64{lo, hi}
		v.half = []float64{violinHalfSize, violinHalfSize}
		return v
	}
	v.xs = floats.Span(make([]float64, kdePoints), lo, hi)
	v.half = density(s, v.xs)

	if top := floats.Max(v.half); top > 0 {
		floats.Scale(violinHalfSize/top, v.half)
	}
	return v
}

// density evaluates a Gaussian kernel density estimate of s at xs, with
// Scott's rule for the bandwidth.
func density(s *Samples, xs []float64) []float64 {
	n := floats.Sum(s.Weights)
	bw := math.Sqrt(stat.PopVariance(s.Values, s.Weights)) * math.Pow(n, -1.0/5)

	d := make([]float64, len(xs))
	if bw == 0 {
		return d
	}
	for i, x := range xs {
		for j, v := range s.Values {
			d[i] += s.Weights[j] * distuv.UnitNormal.Prob((x-v)/bw)
		}
		d[i] /= n * bw
	}
	return d
}

func (v *violin) Plot(c draw.Canvas, p *plot.Plot) {
	trX, trY := p.Transforms(&c)

	pts := make([]vg.Point, 0, 2*len(v.xs))
	for i, x := range v.xs {
		pts = append(pts, vg.Point{X: trX(x), Y: trY(v.pos + v.half[i])})
	}
	for i := len(v.xs) - 1; i >= 0; i-- {
		pts = append(pts, vg.Point{X: trX(v.xs[i]), Y: trY(v.pos - v.half[i])})
	}
	c.FillPolygon(v.fill, c.ClipPolygonXY(pts))

	m := trX(v.median)
	c.StrokeLine2(v.medianStyle, m, trY(v.pos-violinHalfSize), m, trY(v.pos+violinHalfSize))
}

func (v *violin) DataRange() (xmin, xmax, ymin, ymax float64) {
	return v.xs[0], v.xs[len(v.xs)-1], v.pos - violinHalfSize, v.pos + violinHalfSize
}

// stepTicks labels a tick every major units and marks a minor one every
// minor units.
type stepTicks struct {
	major, minor float64
}

func (t stepTicks) Ticks(min, max float64) []plot.Tick {
	var ticks []plot.Tick
	for v := math.Ceil(min/t.minor) * t.minor; v <= max; v += t.minor {
		tick := plot.Tick{Value: v}
		if math.Mod(v, t.major) == 0 {
			tick.Label = strconv.FormatFloat(v, 'f', -1, 64)
		}
		ticks = append(ticks, tick)
	}
	return ticks
}

// violinPlot draws one violin per series, the first one at the bottom.
func violinPlot(c *Chart, dir string) (*plot.Plot, error) {
	colors, err := seriesColors(c.Series)
	if err != nil {
		return nil, err
	}

	p := newPlot(c)
	p.Add(newGrid())

	labels := make([]string, len(c.Series))
	xmax := 0.0
	for i, s := range c.Series {
		samples, err := ReadSamples(filepath.Join(dir, s.File))
		if err != nil {
			return nil, err
		}
		p.Add(newViolin(samples, float64(i), colors[i]))
		labels[i] = s.Label
		xmax = math.Max(xmax, samples.Values[len(samples.Values)-1])
	}

	p.NominalY(labels...)
	p.Y.Min = -1
	p.Y.Max = float64(len(labels)) - 0.25
	p.X.Min = 0
	p.X.Max = float64(int(xmax) + 10)
	p.X.Tick.Marker = stepTicks{major: 10, minor: 5}
	return p, nil
}
