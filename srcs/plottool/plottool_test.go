// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package plottool

import (
	"bytes"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/plotutil"
)

func intPtr(i int) *int { return &i }

func TestDefaultCharts(t *testing.T) {
	set, err := DefaultCharts()
	require.NoError(t, err)
	require.Len(t, set.Charts, 11)

	c, err := set.Find("microbench-arm64")
	require.NoError(t, err)
	assert.Equal(t, KindViolin, c.Kind)
	assert.Equal(t, 9.0, c.Width)
	assert.Equal(t, 3.0, c.Height)
	assert.Len(t, c.Series, 3)

	c, err = set.Find("latency-fullhs-tls12-server")
	require.NoError(t, err)
	assert.Equal(t, 128, c.Bins)

	c, err = set.Find("resumed-12-server-postfix")
	require.NoError(t, err)
	require.Len(t, c.Series, 9)
	assert.Equal(t, StyleDotted, c.Series[0].Style)
	assert.Equal(t, intPtr(0), c.Series[8].SameColorAs)

	_, err = set.Find("missing")
	require.Error(t, err)
}

func TestValidateErrors(t *testing.T) {
	series := []SeriesSpec{{Label: "a", File: "a.tsv"}}
	for name, c := range map[string]Chart{
		"no name":       {Kind: KindThreads, Output: "x.svg", Series: series},
		"no output":     {Name: "x", Kind: KindThreads, Series: series},
		"no series":     {Name: "x", Kind: KindThreads, Output: "x.svg"},
		"unknown kind":  {Name: "x", Kind: "pie", Output: "x.svg", Series: series},
		"no file":       {Name: "x", Kind: KindViolin, Output: "x.svg", Series: []SeriesSpec{{Label: "a"}}},
		"bad style":     {Name: "x", Kind: KindThreads, Output: "x.svg", Series: []SeriesSpec{{File: "a", Style: "dashed"}}},
		"bad colour":    {Name: "x", Kind: KindLatency, Output: "x.svg", Series: []SeriesSpec{{File: "a", Color: "blue"}}},
		"forward color": {Name: "x", Kind: KindThreads, Output: "x.svg", Series: []SeriesSpec{{File: "a", SameColorAs: intPtr(0)}}},
		"negative bins": {Name: "x", Kind: KindLatency, Output: "x.svg", Bins: -1, Series: series},
	} {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, c.Validate())
		})
	}
}

func TestLoadCharts(t *testing.T) {
	set, err := LoadCharts("testdata/charts.yaml")
	require.NoError(t, err)
	require.Len(t, set.Charts, 3)
	assert.Equal(t, 16, set.Charts[1].Bins)
	assert.Equal(t, 6.0, set.Charts[0].Height)

	_, err = LoadCharts("testdata/missing.yaml")
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("charts:\n  - name: x\n    kind: pie\n"), 0644))
	_, err = LoadCharts(bad)
	require.Error(t, err)
}

func TestSeriesColors(t *testing.T) {
	c, err := parseHexColor("#1e90ff")
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{R: 0x1e, G: 0x90, B: 0xff, A: 0xff}, c)

	_, err = parseHexColor("#1e90f")
	require.Error(t, err)
	_, err = parseHexColor("#zzzzzz")
	require.Error(t, err)

	colors, err := seriesColors([]SeriesSpec{
		{File: "a"},
		{File: "b", Color: "#b22222"},
		{File: "c", SameColorAs: intPtr(1)},
		{File: "d"},
	})
	require.NoError(t, err)
	assert.Equal(t, plotutil.Color(0), colors[0])
	assert.Equal(t, color.RGBA{R: 0xb2, G: 0x22, B: 0x22, A: 0xff}, colors[1])
	assert.Equal(t, colors[1], colors[2])
	assert.Equal(t, plotutil.Color(1), colors[3])
}

func TestReadLatencies(t *testing.T) {
	samples, err := ReadLatencies("testdata/a/latency.tsv")
	require.NoError(t, err)
	assert.Equal(t, []float64{12.5, 13, 12.75, 40, 12.5}, samples)

	bad := filepath.Join(t.TempDir(), "bad.tsv")
	require.NoError(t, os.WriteFile(bad, []byte("0 1\n42\n"), 0644))
	_, err = ReadLatencies(bad)
	require.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.tsv")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0644))
	_, err = ReadLatencies(empty)
	require.Error(t, err)
}

func TestHistogramBins(t *testing.T) {
	edges := binEdges([][]float64{{1, 2, 3, 4}, {4}}, 3)
	assert.Equal(t, []float64{1, 2, 3, 4}, edges)

	bins := histogramBins([]float64{1, 2, 3, 4}, edges)
	require.Len(t, bins, 3)
	assert.Equal(t, 1.0, bins[0].Weight)
	assert.Equal(t, 1.0, bins[1].Weight)
	// The maximum falls in the last bin
	assert.Equal(t, 2.0, bins[2].Weight)
	assert.Equal(t, 3.0, bins[2].Min)
	assert.Equal(t, 4.0, bins[2].Max)

	assert.Equal(t, []float64{4.5, 5, 5.5}, binEdges([][]float64{{5}, {5, 5}}, 2))
}

func TestLatencyStats(t *testing.T) {
	s := latencyStats([]float64{1, 2, 3, 4})
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 2.5, s.Mean)
	assert.InDelta(t, math.Sqrt(1.25), s.StdDev, 1e-12)
	assert.Equal(t, 4.0, s.Max)
	assert.Equal(t, []string{"min: 1μs", "mean: 2.5μs", "std dev: 1.11803μs", "max: 4μs"},
		s.Lines())
}

func TestReadSamples(t *testing.T) {
	s, err := ReadSamples("testdata/sample.json")
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{11, 11.5, 12, 13}, s.Values, 1e-9)
	assert.Equal(t, []float64{30, 20, 10, 40}, s.Weights)

	bad := filepath.Join(t.TempDir(), "sample.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"iters":[1,2],"times":[1]}`), 0644))
	_, err = ReadSamples(bad)
	require.Error(t, err)
}

func TestViolinShape(t *testing.T) {
	v := newViolin(&Samples{Values: []float64{1, 3}, Weights: []float64{2, 1}}, 2, color.Black)
	assert.Equal(t, 1.0, v.median)
	require.Len(t, v.xs, kdePoints)
	assert.Equal(t, 1.0, v.xs[0])
	assert.Equal(t, 3.0, v.xs[kdePoints-1])
	assert.InDelta(t, violinHalfSize, floats.Max(v.half), 1e-12)
	// More weight on the left
	assert.Greater(t, v.half[0], v.half[kdePoints-1])

	xmin, xmax, ymin, ymax := v.DataRange()
	assert.Equal(t, []float64{1, 3, 1.5, 2.5}, []float64{xmin, xmax, ymin, ymax})

	flat := newViolin(&Samples{Values: []float64{5}, Weights: []float64{10}}, 0, color.Black)
	assert.Equal(t, 5.0, flat.median)
	assert.Equal(t, []float64{5, 5}, flat.xs)
}

func TestStepTicks(t *testing.T) {
	ticks := stepTicks{major: 10, minor: 5}.Ticks(0, 20)
	require.Len(t, ticks, 5)
	var labels []string
	for _, tick := range ticks {
		labels = append(labels, tick.Label)
	}
	assert.Equal(t, []string{"0", "", "10", "", "20"}, labels)
	assert.Equal(t, 15.0, ticks[3].Value)
}

func TestRender(t *testing.T) {
	set, err := LoadCharts("testdata/charts.yaml")
	require.NoError(t, err)

	for i := range set.Charts {
		c := &set.Charts[i]
		t.Run(c.Name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Render(&buf, c, "testdata"))
			assert.Contains(t, buf.String(), "<svg")
		})
	}
}

func TestRenderFile(t *testing.T) {
	set, err := LoadCharts("testdata/charts.yaml")
	require.NoError(t, err)
	c, err := set.Find("violins")
	require.NoError(t, err)

	out := t.TempDir()
	path, err := RenderFile(c, "testdata", out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "violins.svg"), path)
	assert.FileExists(t, path)

	// A failed chart leaves no file behind
	c.Series[0].File = "missing.json"
	_, err = RenderFile(c, "testdata", out)
	require.Error(t, err)
	c.Output = "broken.svg"
	_, err = RenderFile(c, "testdata", out)
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(out, "broken.svg"))
}
