// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package common

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// exit is replaced in tests to avoid terminating the test binary.
var exit = os.Exit

// messages receives headers and status messages, os.Stdout when nil.
var messages io.Writer

// SetMessageOutput sends headers and status messages to w. Tools whose
// results are written on stdout send them to os.Stderr. A nil w restores
// stdout.
func SetMessageOutput(w io.Writer) {
	messages = w
}

func messageOutput() io.Writer {
	if messages == nil {
		return os.Stdout
	}
	return messages
}

// PrintHeader1 prints a big header formatted string on stdout.
func PrintHeader1(v ...interface{}) {
	header := color.New(color.FgBlue, color.Bold).SprintFunc()
	fmt.Fprintf(messageOutput(), "%s\n", header(v...))
}

// PrintHeader2 prints a small header formatted string on stdout.
func PrintHeader2(v ...interface{}) {
	magenta := color.New(color.FgMagenta).SprintFunc()
	fmt.Fprintf(messageOutput(), "%s\n", magenta(v...))
}

// PrintInfo prints an informational message on the message output.
func PrintInfo(v ...interface{}) {
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(messageOutput(), "[%s] %s", cyan("INFO"), fmt.Sprintln(v...))
}

// PrintOk prints a success message on the message output.
func PrintOk(v ...interface{}) {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Fprintf(messageOutput(), "[%s] %s", green("SUCCESS"), fmt.Sprintln(v...))
}

// PrintWarning prints a warning message on stderr. The execution continues.
func PrintWarning(v ...interface{}) {
	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintf(os.Stderr, "[%s] %s", yellow("WARNING"), fmt.Sprintln(v...))
}

// PrintErr prints an error message on stderr and exits the program with
// status 1.
func PrintErr(v ...interface{}) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(os.Stderr, "[%s] %s", red("ERROR"), fmt.Sprintln(v...))
	_ = SyncLogger()
	exit(1)
}
