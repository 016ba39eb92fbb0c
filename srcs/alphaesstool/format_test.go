// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package alphaesstool

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readTestdata(t *testing.T, name string) []byte {
	t.Helper()
	b, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return b
}

func TestDirection(t *testing.T) {
	tests := []struct {
		v             float64
		battery, grid string
	}{
		{v: -812.5, battery: "charging", grid: "import"},
		{v: 812.5, battery: "discharging", grid: "export"},
		{v: 0, battery: "", grid: ""},
		{v: -0.9, battery: "", grid: ""},
		{v: 0.9, battery: "", grid: ""},
		{v: -1, battery: "charging", grid: "import"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.battery, BatteryDirection(tt.v), "battery %v", tt.v)
		assert.Equal(t, tt.grid, GridDirection(tt.v), "grid %v", tt.v)
	}
}

func TestFormatG(t *testing.T) {
	assert.Equal(t, "1534", formatG(1534))
	assert.Equal(t, "-812.5", formatG(-812.5))
	assert.Equal(t, "1e+06", formatG(1e6))
	assert.Equal(t, "1.23457e+06", formatG(1234567))
	assert.Equal(t, "0.0001", formatG(0.0001))
	assert.Equal(t, "312", watts(0.312))
}

func TestWriteLastPowerText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLastPower(&buf, FormatText, readTestdata(t, "last_power.json")))

	assert.Equal(t, "\nSolar:   1534W\n"+
		"Battery: -812.5W charging\n"+
		"Load:    402W\n"+
		"Grid:    -0.4W \n"+
		"\nBattery charge: 63.2%\n\n", buf.String())
}

func TestWriteLastPowerJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteLastPower(&buf, FormatJSON, readTestdata(t, "last_power.json")))
	assert.Equal(t, `{"code": 200, "msg": "Success", "data": {"ppv": 1534.0, "pbat": -812.5, `+
		`"pload": 402.0, "pgrid": -0.4, "soc": 63.2, "ppvDetail": {"ppv1": 800, "ppv2": 734}}}`+"\n",
		buf.String())
}

func TestWriteJSONLayout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, []byte(`{
  "msg": "a, b: \"c\"\\",
  "site": "Zoë 🔋",
  "data": [1, {}, []]
}`)))
	assert.Equal(t, `{"msg": "a, b: \"c\"\\", "site": "Zo\u00eb \ud83d\udd0b", "data": [1, {}, []]}`+"\n",
		buf.String())

	require.Error(t, writeJSON(&buf, []byte(`{"code":`)))
}

func TestWriteHistogramCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistogram(&buf, FormatCSV, readTestdata(t, "histogram.json")))

	assert.Equal(t, "Time,Battery %,Solar W,Export W,Import W,Home Usage W\n"+
		"00:00,45.2%,0,0,0,312\n"+
		"00:05,45%,0,0,250,500\n"+
		"12:00,100%,3456,2100,0,1356\n", buf.String())
}

func TestWriteHistogramText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHistogram(&buf, FormatText, readTestdata(t, "histogram.json")))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\nPeak instantaneous solar:  4.12kW\n"))
	assert.Contains(t, out, "Peak instantaneous import: 1.25kW\n")
	assert.Contains(t, out, "Total usage:   13.45kWh\n\n"+
		"Time\tBattery %\tSolar W\tExport W\tImport W\tHome Usage W\n")
	assert.True(t, strings.HasSuffix(out, "12:00\t100%\t3456\t2100\t0\t1356\n"))
}

func TestWriteHistogramErrors(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHistogram(&buf, FormatCSV,
		[]byte(`{"data":{"time":["00:00","00:05"],"cbat":[1],"ppv":[1],"feedIn":[1],`+
			`"gridCharge":[1],"homePower":[1]}}`))
	require.Error(t, err)

	require.Error(t, WriteHistogram(&buf, FormatCSV, []byte("<html>")))
	require.Error(t, WriteHistogram(&buf, "xml", readTestdata(t, "histogram.json")))
}
