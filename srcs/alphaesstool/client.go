// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package alphaesstool

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	u "github.com/ctz/junk-drawer/srcs/common"
)

const (
	dateLayout     = "2006-01-02"
	requestTimeout = 30 * time.Second
)

// Client sends authenticated requests to the cloud API.
type Client struct {
	cfg  *Config
	http *http.Client
}

// NewClient returns a client using the credentials of cfg.
func NewClient(cfg *Config) *Client {
	return &Client{cfg: cfg, http: &http.Client{Timeout: requestTimeout}}
}

// Get requests BaseURL + suffix and returns the body of the response. A status
// code other than 2xx is an error.
func (c *Client) Get(ctx context.Context, suffix string) ([]byte, error) {
	url := c.cfg.BaseURL + suffix
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authority", "cloud.alphaess.com")
	req.Header.Set("Authorization", c.cfg.AuthJWT)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Referer", "https://cloud.alphaess.com/index/index")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	u.Logger().Debug("api request", zap.String("url", url),
		zap.Int("status", resp.StatusCode), zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: %s: %s", url, resp.Status,
			strings.TrimSpace(string(body)))
	}
	return body, nil
}

// LastPower requests the latest instantaneous power data.
func (c *Client) LastPower(ctx context.Context) ([]byte, error) {
	return c.Get(ctx, "energyStorage/getLastPowerData?sysSn="+c.cfg.Serial+"&stationId=")
}

// DailyPowerHistogram requests the power histogram of a day.
func (c *Client) DailyPowerHistogram(ctx context.Context, date time.Time) ([]byte, error) {
	return c.Get(ctx, "power/staticsByDay?date="+date.Format(dateLayout)+
		"&userId=&sysSn="+c.cfg.Serial)
}
