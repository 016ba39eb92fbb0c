// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package dependtool

import (
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	u "github.com/ctz/junk-drawer/srcs/common"
)

func readTestdata(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return string(b)
}

func TestParseFileOutput(t *testing.T) {
	assert.True(t, parseFileOutput("/usr/bin/curl: ELF 64-bit LSB pie executable, "+
		"x86-64, dynamically linked, interpreter /lib64/ld-linux-x86-64.so.2"))
	assert.False(t, parseFileOutput("/usr/bin/busybox: ELF 64-bit LSB executable, "+
		"x86-64, statically linked"))
	assert.False(t, parseFileOutput("/usr/bin/ldd: Bourne-Again shell script"))
}

func TestParseLDD(t *testing.T) {
	links, err := parseLDD(readTestdata(t, "ldd.txt"))
	require.NoError(t, err)

	want := map[string]string{
		"libssl.so.3":    "/lib/x86_64-linux-gnu/libssl.so.3",
		"libcrypto.so.3": "/lib/x86_64-linux-gnu/libcrypto.so.3",
		"libfoo.so.1":    "",
		"libc.so.6":      "/lib/x86_64-linux-gnu/libc.so.6",
	}
	if diff := cmp.Diff(want, links); diff != "" {
		t.Errorf("parseLDD() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLDDRejectsUnexpectedLayout(t *testing.T) {
	_, err := parseLDD("\tlibssl.so.3 => /lib/libssl.so.3 (0x1) extra\n")
	require.ErrorIs(t, err, ErrUnexpectedLdd)

	links, err := parseLDD("\tnot a dynamic executable\n")
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestParseBinding(t *testing.T) {
	tests := []struct {
		name string
		line string
		want u.Binding
	}{
		{
			name: "versioned",
			line: "     41032:\tbinding file /usr/bin/curl [0] to /lib/libssl.so.3 [0]: " +
				"normal symbol `SSL_new' [OPENSSL_3.0.0]",
			want: u.Binding{PID: 41032, Src: "/usr/bin/curl", Dst: "/lib/libssl.so.3",
				Sym: "SSL_new", Vers: strPtr("OPENSSL_3.0.0")},
		},
		{
			name: "unversioned",
			line: "41032: binding file /usr/bin/curl [0] to /lib/libssl.so.3 [0]: " +
				"normal symbol `SSL_free'",
			want: u.Binding{PID: 41032, Src: "/usr/bin/curl", Dst: "/lib/libssl.so.3",
				Sym: "SSL_free"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBinding(tt.line)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, *got); diff != "" {
				t.Errorf("parseBinding() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseBindingFailsFast(t *testing.T) {
	_, err := parseBinding("41032: binding file /a [0] to /b [0]: protected symbol `x' [V]")
	require.ErrorIs(t, err, ErrUnexpectedBinding)

	_, err = parseBinding("41032: binding file /a [0] to /b")
	require.ErrorIs(t, err, ErrUnexpectedBinding)

	_, err = parseBinding("pid: binding file /a [0] to /b [0]: normal symbol `x' [V]")
	require.ErrorIs(t, err, ErrUnexpectedBinding)
}

func TestParseBindingsKeepsMatchingDestinations(t *testing.T) {
	bindings, err := parseBindings(readTestdata(t, "ld_debug.txt"), "libssl")
	require.NoError(t, err)
	require.Len(t, bindings, 2)

	assert.Equal(t, "SSL_new", bindings[0].Sym)
	require.NotNil(t, bindings[0].Vers)
	assert.Equal(t, "OPENSSL_3.0.0", *bindings[0].Vers)
	assert.Equal(t, "SSL_free", bindings[1].Sym)
	assert.Nil(t, bindings[1].Vers)
}

func strPtr(s string) *string {
	return &s
}
