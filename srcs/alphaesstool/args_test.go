// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package alphaesstool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	u "github.com/ctz/junk-drawer/srcs/common"
)

func parseCommandLine(t *testing.T, toolArgs ...string) (*localArguments, *u.Arguments) {
	t.Helper()
	args := new(u.Arguments)
	p, err := args.InitArguments("--"+u.ALPHAESS, "test parser")
	require.NoError(t, err)

	osArgs := append([]string{"junk-drawer", "--" + u.ALPHAESS}, toolArgs...)
	local, err := parseLocalArguments(p, args, u.ToolArgs(osArgs))
	require.NoError(t, err)
	return local, args
}

func TestParseRootOptionsAroundCommand(t *testing.T) {
	for name, toolArgs := range map[string][]string{
		"options first": {"--format", "csv", "-c", "other.toml",
			"format-daily-power-histogram", "--file", "h.json"},
		"short options first": {"-f", "csv", "--config", "other.toml",
			"format-daily-power-histogram", "-i", "h.json"},
		"inline values first": {"--format=csv", "--config=other.toml",
			"format-daily-power-histogram", "--file", "h.json"},
		"command first": {"format-daily-power-histogram", "--file", "h.json",
			"-f", "csv", "--config", "other.toml"},
		"mixed": {"-f", "csv", "format-daily-power-histogram", "--file", "h.json",
			"-c", "other.toml"},
	} {
		t.Run(name, func(t *testing.T) {
			local, args := parseCommandLine(t, toolArgs...)
			assert.True(t, local.formatHistogram.Happened())
			assert.Equal(t, "h.json", *local.formatArgs.StringArg[fileArg])
			assert.Equal(t, FormatCSV, *args.StringArg[formatArg])
			assert.Equal(t, "other.toml", *args.StringArg[configArg])
		})
	}
}

func TestParseDefaults(t *testing.T) {
	local, args := parseCommandLine(t, "get-last-power")
	assert.True(t, local.lastPower.Happened())
	assert.False(t, local.histogram.Happened())
	assert.Equal(t, FormatJSON, *args.StringArg[formatArg])
	assert.Equal(t, DefaultConfigFile, *args.StringArg[configArg])

	local, _ = parseCommandLine(t, "--format", "text", "get-daily-power-histogram",
		"--date", "2024-02-25")
	assert.True(t, local.histogram.Happened())
	assert.Equal(t, "2024-02-25", *local.histogramArgs.StringArg[dateArg])
}
