// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package alphaesstool

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	days []string
	fail string
}

func (f *fakeFetcher) DailyPowerHistogram(_ context.Context, date time.Time) ([]byte, error) {
	day := date.Format(dateLayout)
	if day == f.fail {
		return nil, errors.New("service unavailable")
	}
	f.days = append(f.days, day)
	return []byte(`{"data": {"time": ["` + day + `"]}}`), nil
}

func TestDaysInYear(t *testing.T) {
	assert.Len(t, daysInYear(2023), 365)
	days := daysInYear(2024)
	require.Len(t, days, 366)
	assert.Equal(t, "2024-01-01", days[0].Format(dateLayout))
	assert.Equal(t, "2024-02-29", days[59].Format(dateLayout))
	assert.Equal(t, "2024-12-31", days[365].Format(dateLayout))
}

func TestFetchYearSkipsExistingDays(t *testing.T) {
	out := t.TempDir()
	existing := filepath.Join(out, "2023", "2023-01-01.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(existing), 0755))
	require.NoError(t, os.WriteFile(existing, []byte("{}\n"), 0644))

	fetcher := &fakeFetcher{}
	fetched, err := FetchYear(context.Background(), fetcher, 2023, out, 0)
	require.NoError(t, err)
	assert.Equal(t, 364, fetched)
	assert.Equal(t, "2023-01-02", fetcher.days[0])

	b, err := os.ReadFile(filepath.Join(out, "2023", "2023-06-15.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"data": {"time": ["2023-06-15"]}}`+"\n", string(b))

	b, err = os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(b))
}

func TestFetchYearStopsOnError(t *testing.T) {
	out := t.TempDir()
	fetcher := &fakeFetcher{fail: "2023-01-03"}

	fetched, err := FetchYear(context.Background(), fetcher, 2023, out, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2023-01-03")
	assert.Equal(t, 2, fetched)
	assert.NoFileExists(t, filepath.Join(out, "2023", "2023-01-03.json"))
}

func TestFetchYearCancelledDuringDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetched, err := FetchYear(ctx, &fakeFetcher{}, 2023, t.TempDir(), time.Hour)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, fetched)
}
