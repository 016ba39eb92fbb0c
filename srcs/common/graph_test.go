// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package common

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGraph(t *testing.T) {
	data := map[string][]string{
		"/usr/bin/curl":          {"/lib/libssl.so.3", "/lib/libc.so.6"},
		"/lib/libssl.so.3":       {"/lib/libc.so.6"},
		"/usr/bin/no-deps-at-all": nil,
	}

	graph, err := createGraph("libssl", data, map[string]string{"/lib/libssl.so.3": ColorTarget})
	require.NoError(t, err)

	out := graph.String()
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "digraph"))
	assert.Contains(t, out, `"/usr/bin/curl"->"/lib/libssl.so.3"`)
	assert.Contains(t, out, `"/lib/libssl.so.3"->"/lib/libc.so.6"`)
	assert.Contains(t, out, `"/usr/bin/no-deps-at-all"`)
	assert.Contains(t, out, "color=red")
}
