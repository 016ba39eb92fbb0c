// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package plottool

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kinds of chart.
const (
	KindThreads = "threads"
	KindLatency = "latency"
	KindViolin  = "violin"
)

// StyleDotted draws the line of a series with dots.
const StyleDotted = "dotted"

const defaultBins = 128

//go:embed charts.yaml
var embeddedCharts []byte

// ChartSet is the content of a chart definitions file.
type ChartSet struct {
	Charts []Chart `yaml:"charts"`
}

// Chart describes a single SVG chart. Sizes are expressed in inches.
type Chart struct {
	Name   string       `yaml:"name"`
	Kind   string       `yaml:"kind"`
	Title  string       `yaml:"title"`
	Output string       `yaml:"output"`
	XLabel string       `yaml:"x_label"`
	YLabel string       `yaml:"y_label"`
	Width  float64      `yaml:"width,omitempty"`
	Height float64      `yaml:"height,omitempty"`
	Marker float64      `yaml:"marker,omitempty"`
	Bins   int          `yaml:"bins,omitempty"`
	Series []SeriesSpec `yaml:"series"`
}

// SeriesSpec describes where the data of one series comes from and how it
// is drawn.
type SeriesSpec struct {
	Label string   `yaml:"label"`
	File  string   `yaml:"file"`
	Tags  []string `yaml:"tags,omitempty"`
	Style string   `yaml:"style,omitempty"`
	Color string   `yaml:"color,omitempty"`

	// SameColorAs is the index of an earlier series of the chart.
	SameColorAs *int `yaml:"same_color_as,omitempty"`
}

// DefaultCharts returns the embedded chart definitions.
func DefaultCharts() (*ChartSet, error) {
	set, err := parseCharts(embeddedCharts)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded charts: %w", err)
	}
	return set, nil
}

// LoadCharts reads chart definitions from a YAML file.
//
// It returns the charts and an error if any, otherwise it returns nil.
func LoadCharts(path string) (*ChartSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	set, err := parseCharts(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

func parseCharts(b []byte) (*ChartSet, error) {
	set := &ChartSet{}
	if err := yaml.Unmarshal(b, set); err != nil {
		return nil, err
	}
	for i := range set.Charts {
		if err := set.Charts[i].Validate(); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Find returns the chart called name.
func (set *ChartSet) Find(name string) (*Chart, error) {
	for i := range set.Charts {
		if set.Charts[i].Name == name {
			return &set.Charts[i], nil
		}
	}
	return nil, fmt.Errorf("no chart named %q", name)
}

// Validate checks a chart definition and fills in its default sizes.
func (c *Chart) Validate() error {
	if c.Name == "" {
		return errors.New("chart without a name")
	}
	if c.Output == "" {
		return fmt.Errorf("chart %s: no output file", c.Name)
	}
	if len(c.Series) == 0 {
		return fmt.Errorf("chart %s: no series", c.Name)
	}

	switch c.Kind {
	case KindThreads:
		c.setSize(9, 6)
	case KindLatency:
		c.setSize(9, 6)
		if c.Bins == 0 {
			c.Bins = defaultBins
		}
		if c.Bins < 0 {
			return fmt.Errorf("chart %s: negative bins count", c.Name)
		}
	case KindViolin:
		c.setSize(9, 3)
	default:
		return fmt.Errorf("chart %s: unknown kind %q", c.Name, c.Kind)
	}

	for i, s := range c.Series {
		if s.File == "" {
			return fmt.Errorf("chart %s: series %d has no file", c.Name, i)
		}
		if s.Style != "" && s.Style != StyleDotted {
			return fmt.Errorf("chart %s: unknown style %q", c.Name, s.Style)
		}
		if s.SameColorAs != nil && (*s.SameColorAs < 0 || *s.SameColorAs >= i) {
			return fmt.Errorf("chart %s: series %d refers to the colour of series %d",
				c.Name, i, *s.SameColorAs)
		}
		if s.Color != "" {
			if _, err := parseHexColor(s.Color); err != nil {
				return fmt.Errorf("chart %s: %w", c.Name, err)
			}
		}
	}
	return nil
}

func (c *Chart) setSize(width, height float64) {
	if c.Width == 0 {
		c.Width = width
	}
	if c.Height == 0 {
		c.Height = height
	}
}
