// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package dependtool

import (
	"context"
	"errors"
	"os"
	"time"

	"go.uber.org/zap"

	u "github.com/ctz/junk-drawer/srcs/common"
)

// ldDebugEnv is the only environment variable given to a traced program.
const ldDebugEnv = "LD_DEBUG=all"

type runFunc func(ctx context.Context, opts u.RunOptions) (*u.RunResult, error)

// Tracer runs a program with the dynamic linker debug output enabled and
// collects the symbols it binds from a library.
type Tracer struct {
	Match   string
	Args    []string
	Timeout time.Duration
	UsePty  bool

	run runFunc
}

// NewTracer returns a tracer keeping the bindings whose destination contains
// match.
func NewTracer(match string, args []string, timeout time.Duration, usePty bool) *Tracer {
	return &Tracer{
		Match:   match,
		Args:    args,
		Timeout: timeout,
		UsePty:  usePty,
	}
}

// Trace runs program and parses the dynamic linker output. Reaching the
// timeout is expected: the output produced until then is parsed.
//
// It returns the bindings found and an error if any, otherwise it returns nil.
func (t *Tracer) Trace(ctx context.Context, program string) ([]u.Binding, error) {
	run := t.run
	if run == nil {
		run = u.ExecuteRunCmd
		if t.UsePty {
			run = u.ExecutePtyCommand
		}
	}

	res, err := run(ctx, u.RunOptions{
		Name:    program,
		Args:    t.Args,
		Env:     []string{ldDebugEnv},
		Timeout: t.Timeout,
	})
	if err != nil {
		return nil, err
	}
	if res.TimedOut {
		u.Logger().Debug("traced program timed out", zap.String("program", program),
			zap.Duration("timeout", t.Timeout))
	}

	// The terminal merges both streams
	output := res.Stderr
	if t.UsePty {
		output = res.Stdout
	}
	return parseBindings(output, t.Match)
}

// loadBindingData reads the bindings gathered by previous traces. A missing
// file holds no bindings.
//
// It returns the bindings and an error if any, otherwise it returns nil.
func loadBindingData(path string) (u.BindingData, error) {
	data := make(u.BindingData)
	if err := u.ReadDataJson(u.TrimJsonExt(path), &data); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(u.BindingData), nil
		}
		return nil, err
	}
	if data == nil {
		data = make(u.BindingData)
	}
	return data, nil
}

// saveBindingData writes the bindings of every traced program.
func saveBindingData(path string, data u.BindingData) error {
	return u.RecordDataJson(u.TrimJsonExt(path), data)
}
