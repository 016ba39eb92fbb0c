// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package benchtool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	u "github.com/ctz/junk-drawer/srcs/common"
)

func TestFirstNumber(t *testing.T) {
	n, ok := firstNumber("handshakes\tclient\tx 1500.5 per sec")
	require.True(t, ok)
	assert.Equal(t, "1500.5", n)

	_, ok = firstNumber("send MB/s")
	assert.False(t, ok)
}

func TestExtractOslDefaultSections(t *testing.T) {
	lines, err := u.ReadLinesFile("testdata/osl.txt")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExtractOsl(&buf, lines, DefaultOslSections))
	assert.Equal(t, "bulk column ----\n"+
		"123.4\n130.1\n200.5\n210.0\n"+
		"handshakes column ----\n"+
		"1500.5\n1600\n"+
		"resumption column ----\n", buf.String())
}

func TestExtractOslSectionsFromYAML(t *testing.T) {
	sections, err := LoadSections("testdata/sections.yaml")
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Equal(t, "handshakes\tserver", sections[0].Extracts[0].First)

	lines, err := u.ReadLinesFile("testdata/osl.txt")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, ExtractOsl(&buf, lines, sections))
	assert.Equal(t, "server only ----\n1600\n", buf.String())
}
