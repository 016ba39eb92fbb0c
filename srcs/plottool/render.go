// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package plottool

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	u "github.com/ctz/junk-drawer/srcs/common"
)

// Render writes chart c as SVG to w. The files of its series are relative
// to dir.
func Render(w io.Writer, c *Chart, dir string) error {
	var (
		p   *plot.Plot
		err error
	)
	switch c.Kind {
	case KindLatency:
		return writeLatency(w, c, dir)
	case KindThreads:
		p, err = threadsPlot(c, dir)
	case KindViolin:
		p, err = violinPlot(c, dir)
	default:
		return fmt.Errorf("chart %s: unknown kind %q", c.Name, c.Kind)
	}
	if err != nil {
		return err
	}

	wt, err := p.WriterTo(vg.Length(c.Width)*vg.Inch, vg.Length(c.Height)*vg.Inch, "svg")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

// RenderFile renders chart c into its output file under out.
//
// It returns the path of the written file and an error if any, otherwise
// it returns nil.
func RenderFile(c *Chart, dir, out string) (string, error) {
	path := filepath.Join(out, c.Output)
	u.Logger().Debug("rendering chart", zap.String("chart", c.Name),
		zap.String("kind", c.Kind), zap.String("output", path))

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := Render(f, c, dir); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("chart %s: %w", c.Name, err)
	}
	return path, f.Close()
}
