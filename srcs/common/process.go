// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package common

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/kr/pty"
	"go.uber.org/zap"
)

// waitDelay bounds the time spent waiting for the output pipes of a killed
// process (its children may still hold them open).
const waitDelay = 500 * time.Millisecond

// Exported struct that describes a command to run.
type RunOptions struct {
	Name    string
	Args    []string
	Env     []string // nil inherits the environment of the toolkit
	Stdin   []byte
	Timeout time.Duration // 0 means no timeout
}

// Exported struct that represents the outcome of a command.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
}

// ExecuteCommand executes a single command without displaying the output.
//
// It returns a string which represents stdout and stderr and an error if
// any, otherwise it returns nil.
func ExecuteCommand(command string, arguments []string) (string, error) {
	Logger().Debug("execute command", zap.String("command", command),
		zap.Strings("args", arguments))
	out, err := exec.Command(command, arguments...).CombinedOutput()
	return string(out), err
}

// ExecuteOutput executes a single command and collects its standard output.
// A non-zero exit status is an error which carries the standard error of the
// command.
//
// It returns a string which represents stdout and an error if any, otherwise
// it returns nil.
func ExecuteOutput(ctx context.Context, command string, arguments ...string) (string, error) {
	Logger().Debug("execute command", zap.String("command", command),
		zap.Strings("args", arguments))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, command, arguments...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if len(msg) > 0 {
			return stdout.String(), fmt.Errorf("%s %s: %w: %s", command,
				strings.Join(arguments, " "), err, msg)
		}
		return stdout.String(), fmt.Errorf("%s %s: %w", command,
			strings.Join(arguments, " "), err)
	}
	return stdout.String(), nil
}

// ExecuteRunCmd runs a command and captures stdout and stderr separately. A
// non-zero exit status is not an error. When the timeout expires the process
// is killed and the output produced so far is returned with TimedOut set.
//
// It returns the result of the command and an error if the command cannot be
// started or if ctx is cancelled, otherwise it returns nil.
func ExecuteRunCmd(ctx context.Context, opts RunOptions) (*RunResult, error) {
	runCtx, cancel := withOptionalTimeout(ctx, opts.Timeout)
	defer cancel()

	Logger().Debug("execute command", zap.String("command", opts.Name),
		zap.Strings("args", opts.Args), zap.Strings("env", opts.Env),
		zap.Duration("timeout", opts.Timeout))

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(runCtx, opts.Name, opts.Args...)
	cmd.Env = opts.Env
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	if opts.Stdin != nil {
		cmd.Stdin = bytes.NewReader(opts.Stdin)
	}

	err := cmd.Run()
	return finishRun(ctx, runCtx, cmd, err, &RunResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	})
}

// ExecutePtyCommand runs a command attached to a pseudo-terminal. Standard
// output and standard error are merged by the terminal and returned as
// Stdout. Timeout handling is the same as ExecuteRunCmd.
//
// It returns the result of the command and an error if the command cannot be
// started or if ctx is cancelled, otherwise it returns nil.
func ExecutePtyCommand(ctx context.Context, opts RunOptions) (*RunResult, error) {
	runCtx, cancel := withOptionalTimeout(ctx, opts.Timeout)
	defer cancel()

	Logger().Debug("execute command on pty", zap.String("command", opts.Name),
		zap.Strings("args", opts.Args), zap.Duration("timeout", opts.Timeout))

	cmd := exec.CommandContext(runCtx, opts.Name, opts.Args...)
	cmd.Env = opts.Env

	tty, err := pty.Start(cmd)
	if err != nil {
		return nil, err
	}
	defer tty.Close()

	if opts.Stdin != nil {
		if _, err := tty.Write(opts.Stdin); err != nil {
			Logger().Debug("cannot write stdin to pty", zap.Error(err))
		}
	}

	var output bytes.Buffer
	done := make(chan struct{})
	go func() {
		// Reading the master side returns EIO once the child has exited.
		_, _ = io.Copy(&output, tty)
		close(done)
	}()

	err = cmd.Wait()
	select {
	case <-done:
	case <-time.After(waitDelay):
		_ = tty.Close()
		<-done
	}

	return finishRun(ctx, runCtx, cmd, err, &RunResult{Stdout: output.String()})
}

func withOptionalTimeout(ctx context.Context, timeout time.Duration) (context.Context,
	context.CancelFunc) {
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

// finishRun classifies the error returned by a finished command.
func finishRun(parent, runCtx context.Context, cmd *exec.Cmd, err error,
	result *RunResult) (*RunResult, error) {

	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}

	if parentErr := parent.Err(); parentErr != nil {
		return result, parentErr
	}

	if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		Logger().Debug("command timed out", zap.String("command", cmd.Path))
		return result, nil
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return result, err
	}
	return result, nil
}
