// Package thuyloi fetches reservoir status snapshots from the
// thuyloivietnam irrigation API, one list per requested day.
package thuyloi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/minhtq/floodwatch/internal/normalize"
)

// Options configures the irrigation API client.
type Options struct {
	URL     string
	Timeout time.Duration
	Retries int
}

// Client talks to the reservoir status endpoint.
type Client struct {
	http   *resty.Client
	url    string
	logger *slog.Logger
}

// NewClient creates an irrigation API client with bounded retries and
// exponential backoff.
func NewClient(opts Options, logger *slog.Logger) *Client {
	http := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.Retries).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(8 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= 500
		}).
		SetHeaders(map[string]string{
			"User-Agent": "Mozilla/5.0",
			"Referer":    "http://e15.thuyloivietnam.vn/",
		})

	return &Client{http: http, url: opts.URL, logger: logger}
}

// DayStatus fetches the reservoir snapshot list for one local calendar day.
// The API takes the day as a midnight timestamp with a comma-separated
// millisecond suffix.
func (c *Client) DayStatus(ctx context.Context, day time.Time) ([]normalize.LakeRecord, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"time":         day.Format("2006-01-02") + " 00:00:00,000",
			"ishothuydien": "0",
		}).
		Post(c.url)
	if err != nil {
		return nil, fmt.Errorf("lake status %s: %w", day.Format("2006-01-02"), err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("lake status %s: status %d", day.Format("2006-01-02"), resp.StatusCode())
	}

	// Decode the body directly; the endpoint serves JSON under a text
	// content type.
	var records []normalize.LakeRecord
	if err := json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("lake status %s: decode: %w", day.Format("2006-01-02"), err)
	}
	return records, nil
}
