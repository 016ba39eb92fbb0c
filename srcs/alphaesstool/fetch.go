// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package alphaesstool

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"

	u "github.com/ctz/junk-drawer/srcs/common"
)

// histogramFetcher returns the histogram of a day.
type histogramFetcher interface {
	DailyPowerHistogram(ctx context.Context, date time.Time) ([]byte, error)
}

// daysInYear returns every day of a year.
func daysInYear(year int) []time.Time {
	var days []time.Time
	for d := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC); d.Year() == year; d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// histogramPath returns outDir/YYYY/YYYY-MM-DD.json.
func histogramPath(outDir string, day time.Time) string {
	return filepath.Join(outDir, strconv.Itoa(day.Year()), day.Format(dateLayout)+".json")
}

// FetchYear saves the histogram of every day of year as JSON. Days already
// saved are skipped; the fetcher is given a rest of delay between two
// requests.
//
// It returns the number of fetched days and an error if any, otherwise it
// returns nil.
func FetchYear(ctx context.Context, fetcher histogramFetcher, year int, outDir string,
	delay time.Duration) (int, error) {

	fetched := 0
	for _, day := range daysInYear(year) {
		path := histogramPath(outDir, day)
		if u.Exists(path) {
			u.PrintInfo("Already have " + day.Format(dateLayout))
			continue
		}

		if fetched > 0 && delay > 0 {
			select {
			case <-ctx.Done():
				return fetched, ctx.Err()
			case <-time.After(delay):
			}
		}

		u.PrintInfo("Fetching " + day.Format(dateLayout))
		body, err := fetcher.DailyPowerHistogram(ctx, day)
		if err != nil {
			return fetched, fmt.Errorf("%s: %w", day.Format(dateLayout), err)
		}

		var buf bytes.Buffer
		if err := WriteHistogram(&buf, FormatJSON, body); err != nil {
			return fetched, fmt.Errorf("%s: %w", day.Format(dateLayout), err)
		}
		if err := u.WriteToFile(path, buf.Bytes()); err != nil {
			return fetched, err
		}
		u.Logger().Debug("histogram saved", zap.String("path", path))
		fetched++
	}
	return fetched, nil
}
