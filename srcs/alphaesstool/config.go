// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package alphaesstool

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	u "github.com/ctz/junk-drawer/srcs/common"
)

// Exported constants of the configuration.
const (
	DefaultConfigFile = "alphaess.toml"
	DefaultBaseURL    = "https://cloud.alphaess.com/api/base/"

	EnvSerial  = "ALPHAESS_SERIAL"
	EnvAuthJWT = "ALPHAESS_AUTH_JWT"
	EnvBaseURL = "ALPHAESS_BASE_URL"
)

// ErrInvalidConfig is returned when the serial number or the token is missing.
var ErrInvalidConfig = errors.New("config is invalid: see comments in alphaess.toml.example")

// Config holds the credentials of the cloud account.
type Config struct {
	// Serial number of the battery system.
	Serial string `toml:"serial"`
	// AuthJWT is sent as is in the Authorization header. It can be copied
	// from the browser once logged in the web interface.
	AuthJWT string `toml:"auth_jwt"`
	BaseURL string `toml:"base_url,omitempty"`
}

// LoadConfig reads the configuration file (if it exists) then applies the
// environment overrides. Variables of a .env file in the current folder are
// added to the environment first.
//
// It returns the configuration and ErrInvalidConfig if a mandatory value is
// missing, otherwise it returns nil.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if u.Exists(path) {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv(EnvSerial)); v != "" {
		cfg.Serial = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAuthJWT)); v != "" {
		cfg.AuthJWT = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the serial number and the token are set.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Serial) == "" || strings.TrimSpace(c.AuthJWT) == "" {
		return ErrInvalidConfig
	}
	return nil
}

// SaveConfig writes the configuration as TOML. The file holds a secret and is
// only readable by its owner.
//
// It returns an error if any, otherwise it returns nil.
func SaveConfig(path string, cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return err
	}
	if err := u.WriteToFile(path, buf.Bytes()); err != nil {
		return err
	}
	return os.Chmod(path, 0600)
}
