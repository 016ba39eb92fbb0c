// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package plottool

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// sampleFile is the sample.json written by criterion for a benchmark: the
// total time in nanoseconds of each batch of iterations.
type sampleFile struct {
	Iters []float64 `json:"iters"`
	Times []float64 `json:"times"`
}

// Samples is a distribution of per-iteration times in microseconds. Each
// value stands for Weights[i] identical measurements. Values are sorted.
type Samples struct {
	Values  []float64
	Weights []float64
}

func (s *Samples) Len() int           { return len(s.Values) }
func (s *Samples) Less(i, j int) bool { return s.Values[i] < s.Values[j] }
func (s *Samples) Swap(i, j int) {
	s.Values[i], s.Values[j] = s.Values[j], s.Values[i]
	s.Weights[i], s.Weights[j] = s.Weights[j], s.Weights[i]
}

// ReadSamples reads a criterion sample.json. A batch of n iterations which
// took t nanoseconds counts as n measurements of t/n*1e-3 microseconds.
//
// It returns the samples and an error if any, otherwise it returns nil.
func ReadSamples(path string) (*Samples, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var js sampleFile
	if err := json.Unmarshal(b, &js); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(js.Iters) != len(js.Times) {
		return nil, fmt.Errorf("%s: %d iteration counts for %d times", path,
			len(js.Iters), len(js.Times))
	}

	s := &Samples{}
	for i, iters := range js.Iters {
		n := float64(int(iters))
		if n <= 0 {
			continue
		}
		s.Values = append(s.Values, js.Times[i]/iters*1e-3)
		s.Weights = append(s.Weights, n)
	}
	if len(s.Values) == 0 {
		return nil, fmt.Errorf("%s: no samples", path)
	}
	sort.Sort(s)
	return s, nil
}
