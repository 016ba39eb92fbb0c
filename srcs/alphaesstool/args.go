// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package alphaesstool

import (
	"time"

	"github.com/akamensky/argparse"

	u "github.com/ctz/junk-drawer/srcs/common"
)

const (
	formatArg = "format"
	configArg = "config"
	dateArg   = "date"
	fileArg   = "file"
	yearArg   = "year"
	outArg    = "out"
	delayArg  = "delay"
)

type localArguments struct {
	configure, lastPower, histogram, formatHistogram, fetchYear *argparse.Command

	histogramArgs, formatArgs, fetchArgs *u.Arguments
}

// parseLocalArguments parses arguments of the application.
//
// It returns the parsed arguments and an error if any, otherwise it returns
// nil.
func parseLocalArguments(p *argparse.Parser, args *u.Arguments,
	osArgs []string) (*localArguments, error) {

	args.InitArgParse(p, args, u.STRING, "f", formatArg,
		&argparse.Options{Required: false, Default: FormatJSON,
			Help: "Output format: json, text or csv"})
	args.InitArgParse(p, args, u.STRING, "c", configArg,
		&argparse.Options{Required: false, Default: DefaultConfigFile,
			Help: "TOML file holding the serial number and the token"})

	local := &localArguments{
		configure: p.NewCommand("configure",
			"Prompt for the serial number and the token and save them"),
		lastPower: p.NewCommand("get-last-power",
			"Get latest instantaneous power data from the getLastPowerData endpoint"),
		histogram: p.NewCommand("get-daily-power-histogram",
			"Get a daily power histogram from the staticsByDay endpoint"),
		formatHistogram: p.NewCommand("format-daily-power-histogram",
			"Turn a JSON output of get-daily-power-histogram into another format"),
		fetchYear: p.NewCommand("fetch-year",
			"Save the daily power histograms of a whole year"),
		histogramArgs: u.NewArguments(),
		formatArgs:    u.NewArguments(),
		fetchArgs:     u.NewArguments(),
	}

	h := local.histogramArgs
	h.InitArgParse(local.histogram, h, u.STRING, "d", dateArg,
		&argparse.Options{Required: true, Help: "Date, in the format 2024-02-25"})

	f := local.formatArgs
	f.InitArgParse(local.formatHistogram, f, u.STRING, "i", fileArg,
		&argparse.Options{Required: true, Help: "JSON file to format"})

	y := local.fetchArgs
	y.InitArgParse(local.fetchYear, y, u.INT, "y", yearArg,
		&argparse.Options{Required: false, Default: time.Now().Year() - 1,
			Help: "Year to fetch"})
	y.InitArgParse(local.fetchYear, y, u.STRING, "o", outArg,
		&argparse.Options{Required: false, Default: "output",
			Help: "Output folder (a sub-folder per year is created)"})
	y.InitArgParse(local.fetchYear, y, u.FLOAT, "", delayArg,
		&argparse.Options{Required: false, Default: 2.0,
			Help: "Time (sec) to wait between two requests"})

	// The root options usually come first, as in "--format text get-last-power"
	return local, u.ParserWrapper(p, u.CommandFirst(osArgs, "-f", "--"+formatArg,
		"-c", "--"+configArg))
}
