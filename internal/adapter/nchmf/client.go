// Package nchmf fetches landslide and flash-flood warnings from the NCHMF
// warning map.
package nchmf

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/minhtq/floodwatch/internal/normalize"
)

// Options configures the warning map client.
type Options struct {
	URL           string
	ForecastHours int
	Timeout       time.Duration
	Retries       int
}

// Client talks to the commune warning list endpoint.
type Client struct {
	http          *resty.Client
	url           string
	forecastHours int
	logger        *slog.Logger
}

// NewClient creates a warning map client with bounded retries and
// exponential backoff.
func NewClient(opts Options, logger *slog.Logger) *Client {
	http := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(2 * time.Second).
		SetRetryMaxWaitTime(16 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		})

	return &Client{
		http:          http,
		url:           opts.URL,
		forecastHours: opts.ForecastHours,
		logger:        logger,
	}
}

// Warnings fetches the active commune warning list for the given issue hour.
func (c *Client) Warnings(ctx context.Context, issuedAt time.Time) ([]normalize.LandslideRecord, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"sogiodubao": strconv.Itoa(c.forecastHours),
			"date":       issuedAt.Format("2006-01-02 15:04:05"),
		}).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("landslide warnings: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("landslide warnings: status %d", resp.StatusCode())
	}

	var records []normalize.LandslideRecord
	if err := json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("landslide warnings: decode: %w", err)
	}
	return records, nil
}
