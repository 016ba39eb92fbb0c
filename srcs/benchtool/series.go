// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package benchtool

import (
	"fmt"
	"strconv"
)

// Series is the measure per thread of a benchmark against its threads count.
type Series struct {
	Threads   []float64
	PerThread []float64
}

// Len returns the number of points of the series.
func (s *Series) Len() int {
	return len(s.Threads)
}

// XY returns a point of the series.
func (s *Series) XY(i int) (float64, float64) {
	return s.Threads[i], s.PerThread[i]
}

// ReadSeries reads the lines of a benchmark log which match tags. Every
// matching line must carry a threads count.
//
// It returns the series and an error if any, otherwise it returns nil.
func ReadSeries(path string, tags []string) (*Series, error) {
	rows, err := IterAll(path, tags)
	if err != nil {
		return nil, err
	}

	series := &Series{}
	for _, parts := range rows {
		threads := ExtractWhich(ThreadsLabel, parts, "")
		if threads == "" {
			return nil, fmt.Errorf("%s: no threads count in %q", path, parts)
		}
		x, err := strconv.Atoi(threads)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		_, perThread := Measure(parts)
		y, err := strconv.ParseFloat(perThread, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		series.Threads = append(series.Threads, float64(x))
		series.PerThread = append(series.PerThread, y)
	}
	return series, nil
}
