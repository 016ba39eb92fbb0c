// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package alphaesstool

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientSendsCredentials(t *testing.T) {
	var got *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	client := NewClient(&Config{Serial: "SN1", AuthJWT: "jwt-token", BaseURL: srv.URL + "/api/base/"})

	body, err := client.LastPower(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"data":{}}`, string(body))

	require.NotNil(t, got)
	assert.Equal(t, "/api/base/energyStorage/getLastPowerData", got.URL.Path)
	assert.Equal(t, "sysSn=SN1&stationId=", got.URL.RawQuery)
	assert.Equal(t, "jwt-token", got.Header.Get("Authorization"))
	assert.Equal(t, "cloud.alphaess.com", got.Header.Get("Authority"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "https://cloud.alphaess.com/index/index", got.Header.Get("Referer"))

	_, err = client.DailyPowerHistogram(context.Background(),
		time.Date(2024, time.February, 25, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "/api/base/power/staticsByDay", got.URL.Path)
	assert.Equal(t, "date=2024-02-25&userId=&sysSn=SN1", got.URL.RawQuery)
}

func TestClientRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(&Config{Serial: "SN1", AuthJWT: "old", BaseURL: srv.URL + "/"})
	_, err := client.LastPower(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "token expired")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv(EnvSerial, "")
	t.Setenv(EnvAuthJWT, "")
	t.Setenv(EnvBaseURL, "")

	cfg, err := LoadConfig("testdata/alphaess.toml")
	require.NoError(t, err)
	assert.Equal(t, "AL2002321010043", cfg.Serial)
	assert.Equal(t, "eyJhbGciOiJIUzUxMiJ9.test", cfg.AuthJWT)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)

	t.Setenv(EnvAuthJWT, "from-env")
	t.Setenv(EnvBaseURL, "http://localhost:8080/")
	cfg, err = LoadConfig("testdata/alphaess.toml")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AuthJWT)
	assert.Equal(t, "http://localhost:8080/", cfg.BaseURL)
}

func TestLoadConfigInvalid(t *testing.T) {
	t.Setenv(EnvSerial, "")
	t.Setenv(EnvAuthJWT, "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.EqualError(t, err, "config is invalid: see comments in alphaess.toml.example")

	broken := filepath.Join(t.TempDir(), "broken.toml")
	require.NoError(t, os.WriteFile(broken, []byte("serial = "), 0600))
	_, err = LoadConfig(broken)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSaveConfig(t *testing.T) {
	t.Setenv(EnvSerial, "")
	t.Setenv(EnvAuthJWT, "")
	t.Setenv(EnvBaseURL, "")

	path := filepath.Join(t.TempDir(), "conf", "alphaess.toml")
	want := &Config{Serial: "SN1", AuthJWT: "jwt", BaseURL: DefaultBaseURL}
	require.NoError(t, SaveConfig(path, want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
