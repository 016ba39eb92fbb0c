// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package alphaesstool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	u "github.com/ctz/junk-drawer/srcs/common"
)

// RunAlphaEssTool allows to run the cloud API client.
func RunAlphaEssTool(ctx context.Context) {

	// Init and parse local arguments
	args := new(u.Arguments)
	p, err := args.InitArguments("--"+u.ALPHAESS,
		"The AlphaESS tool queries the monitoring cloud of a solar battery system")
	if err != nil {
		u.PrintErr(err)
	}
	local, err := parseLocalArguments(p, args, u.ToolArgs(os.Args))
	if err != nil {
		u.PrintErr(err)
	}

	format := *args.StringArg[formatArg]
	if !slices.Contains(Formats, format) {
		u.PrintErr(fmt.Sprintf("format must be one of %s", strings.Join(Formats, ", ")))
	}
	configFile := *args.StringArg[configArg]

	switch {
	case local.configure.Happened():
		err = configure(configFile)
	case local.formatHistogram.Happened():
		err = formatHistogramFile(*local.formatArgs.StringArg[fileArg], format)
	case local.lastPower.Happened(), local.histogram.Happened(), local.fetchYear.Happened():
		var cfg *Config
		if cfg, err = LoadConfig(configFile); err != nil {
			break
		}
		client := NewClient(cfg)
		switch {
		case local.lastPower.Happened():
			err = lastPower(ctx, client, format)
		case local.histogram.Happened():
			err = dailyHistogram(ctx, client, *local.histogramArgs.StringArg[dateArg], format)
		default:
			err = fetchYear(ctx, client, local.fetchArgs)
		}
	default:
		err = errors.New("a command is required")
	}
	if err != nil {
		u.PrintErr(err)
	}
}

// configure prompts for the credentials and saves them.
func configure(path string) error {
	cfg := &Config{BaseURL: DefaultBaseURL}
	if u.Exists(path) {
		if loaded, err := LoadConfig(path); err == nil {
			cfg = loaded
		}
	}

	questions := []*survey.Question{
		{
			Name: "serial",
			Prompt: &survey.Input{
				Message: "Serial number of the system:",
				Default: cfg.Serial,
			},
			Validate: survey.Required,
		},
		{
			Name: "token",
			Prompt: &survey.Password{
				Message: "Authorization token (from the browser developer tools):",
			},
			Validate: survey.Required,
		},
	}

	answers := struct {
		Serial string `survey:"serial"`
		Token  string `survey:"token"`
	}{}
	if err := survey.Ask(questions, &answers); err != nil {
		return err
	}

	cfg.Serial = strings.TrimSpace(answers.Serial)
	cfg.AuthJWT = strings.TrimSpace(answers.Token)
	if err := SaveConfig(path, cfg); err != nil {
		return err
	}
	u.PrintOk("Configuration saved into " + path)
	return nil
}

func lastPower(ctx context.Context, client *Client, format string) error {
	body, err := client.LastPower(ctx)
	if err != nil {
		return err
	}
	return WriteLastPower(os.Stdout, format, body)
}

func dailyHistogram(ctx context.Context, client *Client, date, format string) error {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return fmt.Errorf("date must be in the format 2024-02-25: %w", err)
	}
	body, err := client.DailyPowerHistogram(ctx, day)
	if err != nil {
		return err
	}
	return WriteHistogram(os.Stdout, format, body)
}

func formatHistogramFile(path, format string) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return WriteHistogram(os.Stdout, format, body)
}

func fetchYear(ctx context.Context, client *Client, args *u.Arguments) error {
	year := *args.IntArg[yearArg]
	delay := time.Duration(*args.FloatArg[delayArg] * float64(time.Second))

	fetched, err := FetchYear(ctx, client, year, *args.StringArg[outArg], delay)
	if err != nil {
		return err
	}
	u.PrintOk(fmt.Sprintf("%d days of %d fetched", fetched, year))
	return nil
}
