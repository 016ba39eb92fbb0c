// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package alphaesstool

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatCSV  = "csv"
)

// Formats lists the supported output formats.
var Formats = []string{FormatJSON, FormatText, FormatCSV}

var tableHeader = []string{"Time", "Battery %", "Solar W", "Export W", "Import W",
	"Home Usage W"}

// LastPower is the data of a getLastPowerData response. Powers are in W.
type LastPower struct {
	Ppv   float64 `json:"ppv"`
	Pbat  float64 `json:"pbat"`
	Pload float64 `json:"pload"`
	Pgrid float64 `json:"pgrid"`
	Soc   float64 `json:"soc"`
}

// Histogram is the data of a staticsByDay response. Series are in kW, peaks
// in kW and totals in kWh.
type Histogram struct {
	Time       []string  `json:"time"`
	Cbat       []float64 `json:"cbat"`
	Ppv        []float64 `json:"ppv"`
	FeedIn     []float64 `json:"feedIn"`
	GridCharge []float64 `json:"gridCharge"`
	HomePower  []float64 `json:"homePower"`

	MaxPpv        float64 `json:"maxPpv"`
	MaxFeedIn     float64 `json:"maxFeedIn"`
	MaxGridCharge float64 `json:"maxGridCharge"`
	MaxUsePower   float64 `json:"maxUsePower"`

	Epvtoday float64 `json:"epvtoday"`
	EfeedIn  float64 `json:"efeedIn"`
	Einput   float64 `json:"einput"`
	Eload    float64 `json:"eload"`
}

type response[T any] struct {
	Data T `json:"data"`
}

// Direction names the direction of a power flow. The value is truncated
// toward zero first: a flow below 1W has no direction.
func Direction(v float64, inward, zero, outward string) string {
	switch {
	case int64(v) == 0:
		return zero
	case v < 0:
		return inward
	default:
		return outward
	}
}

// BatteryDirection returns "charging" for a negative battery power and
// "discharging" for a positive one.
func BatteryDirection(pbat float64) string {
	return Direction(pbat, "charging", "", "discharging")
}

// GridDirection returns "import" for a negative grid power and "export" for a
// positive one.
func GridDirection(pgrid float64) string {
	return Direction(pgrid, "import", "", "export")
}

// formatG formats a number with six significant digits and no trailing zeros.
func formatG(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func watts(kw float64) string {
	return formatG(kw * 1000)
}

func decode[T any](body []byte) (*T, error) {
	var resp response[T]
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("cannot decode response: %w", err)
	}
	return &resp.Data, nil
}

// writeJSON writes body on a single line, with ", " and ": " separators and
// non-ASCII characters escaped like Python's json.dumps.
func writeJSON(w io.Writer, body []byte) error {
	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err != nil {
		return fmt.Errorf("cannot decode response: %w", err)
	}

	var buf bytes.Buffer
	inString, escaped := false, false
	for _, r := range compact.String() {
		switch {
		case inString:
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			case r > unicode.MaxASCII:
				for _, c := range utf16.Encode([]rune{r}) {
					fmt.Fprintf(&buf, `\u%04x`, c)
				}
				continue
			}
		case r == '"':
			inString = true
		case r == ',' || r == ':':
			buf.WriteRune(r)
			buf.WriteByte(' ')
			continue
		}
		buf.WriteRune(r)
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// WriteLastPower writes a getLastPowerData response in the given format.
//
// It returns an error if any, otherwise it returns nil.
func WriteLastPower(w io.Writer, format string, body []byte) error {
	data, err := decode[LastPower](body)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, body)
	case FormatText:
		_, err = fmt.Fprintf(w, "\nSolar:   %sW\nBattery: %sW %s\nLoad:    %sW\n"+
			"Grid:    %sW %s\n\nBattery charge: %s%%\n\n",
			formatG(data.Ppv),
			formatG(data.Pbat), BatteryDirection(data.Pbat),
			formatG(data.Pload),
			formatG(data.Pgrid), GridDirection(data.Pgrid),
			formatG(data.Soc))
		return err
	case FormatCSV:
		// No table for instantaneous data
		return nil
	}
	return fmt.Errorf("unknown format %q", format)
}

// WriteHistogram writes a staticsByDay response in the given format.
//
// It returns an error if any, otherwise it returns nil.
func WriteHistogram(w io.Writer, format string, body []byte) error {
	data, err := decode[Histogram](body)
	if err != nil {
		return err
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, body)
	case FormatText:
		if _, err := fmt.Fprintf(w, "\nPeak instantaneous solar:  %skW\n"+
			"Peak instantaneous export: %skW\n"+
			"Peak instantaneous import: %skW\n"+
			"Peak instantaneous usage:  %skW\n\n"+
			"Total solar:   %skWh\n"+
			"Total export:  %skWh\n"+
			"Total import:  %skWh\n"+
			"Total usage:   %skWh\n\n",
			formatG(data.MaxPpv), formatG(data.MaxFeedIn),
			formatG(data.MaxGridCharge), formatG(data.MaxUsePower),
			formatG(data.Epvtoday), formatG(data.EfeedIn),
			formatG(data.Einput), formatG(data.Eload)); err != nil {
			return err
		}
		return writeTable(w, "\t", data)
	case FormatCSV:
		return writeTable(w, ",", data)
	}
	return fmt.Errorf("unknown format %q", format)
}

func writeTable(w io.Writer, sep string, data *Histogram) error {
	lines := make([]string, 0, len(data.Time)+1)
	lines = append(lines, strings.Join(tableHeader, sep))

	for i, t := range data.Time {
		if i >= len(data.Cbat) || i >= len(data.Ppv) || i >= len(data.FeedIn) ||
			i >= len(data.GridCharge) || i >= len(data.HomePower) {
			return fmt.Errorf("histogram series are shorter than its %d times",
				len(data.Time))
		}
		lines = append(lines, strings.Join([]string{
			t,
			formatG(data.Cbat[i]) + "%",
			watts(data.Ppv[i]),
			watts(data.FeedIn[i]),
			watts(data.GridCharge[i]),
			watts(data.HomePower[i]),
		}, sep))
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}
