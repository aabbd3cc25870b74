// Package vndms fetches river gauge data from the VNDMS disaster-monitoring
// portal: station discovery over the water-level GeoJSON layers and
// per-station reading series from the detailRain endpoint.
package vndms

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/minhtq/floodwatch/internal/normalize"
)

// warningLayers are the map warning levels station discovery walks; a
// station appears in exactly one layer depending on its current alert state.
var warningLayers = []string{"0", "1", "2", "3"}

var stationIDRe = regexp.MustCompile(`^\d+$`)

// Options configures the portal client.
type Options struct {
	StationListURL string
	DetailURL      string
	Timeout        time.Duration
	Retries        int
}

// Client talks to the VNDMS portal endpoints.
type Client struct {
	http           *resty.Client
	stationListURL string
	detailURL      string
	logger         *slog.Logger
}

// NewClient creates a portal client with bounded retries and exponential
// backoff on transport errors and server error statuses. The portal rejects
// requests without browser-looking headers.
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
			"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7)",
			"Referer":    "https://vndms.dmptc.gov.vn/",
			"Origin":     "https://vndms.dmptc.gov.vn",
		})

	return &Client{
		http:           http,
		stationListURL: opts.StationListURL,
		detailURL:      opts.DetailURL,
		logger:         logger,
	}
}

// Stations discovers gauge stations across all warning layers, keeping only
// those keep accepts (the allow-list). A failed layer is logged and skipped;
// an error is returned only when every layer failed.
func (c *Client) Stations(ctx context.Context, keep func(id string) bool) (map[string]normalize.StationMeta, error) {
	stations := make(map[string]normalize.StationMeta)
	var lastErr error
	failed := 0

	for _, lv := range warningLayers {
		feats, err := c.stationLayer(ctx, lv)
		if err != nil {
			c.logger.Warn("station layer fetch failed", "layer", lv, "error", err)
			lastErr = err
			failed++
			continue
		}

		for _, f := range feats {
			id := popupField(f.Properties.PopupInfo, "Mã trạm")
			if !stationIDRe.MatchString(id) || !keep(id) {
				continue
			}

			meta := normalize.StationMeta{
				ID:    id,
				Name:  f.Properties.Label,
				River: popupField(f.Properties.PopupInfo, "Sông"),
			}
			if meta.Name == "" {
				meta.Name = "Station " + id
			}
			if f.Geometry.Type == "Point" && len(f.Geometry.Coordinates) == 2 {
				x, y := f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]
				meta.X, meta.Y = &x, &y
			}
			stations[id] = meta
		}
	}

	if failed == len(warningLayers) {
		return nil, fmt.Errorf("station discovery: all layers failed: %w", lastErr)
	}
	return stations, nil
}

// Detail fetches one station's reading series for the portal's rolling
// 7-day window.
func (c *Client) Detail(ctx context.Context, stationID string) (normalize.RiverDetail, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"id":         stationID,
			"timeSelect": "7",
			"source":     "Water",
			"fromDate":   "",
			"toDate":     "",
		}).
		Post(c.detailURL)
	if err != nil {
		return normalize.RiverDetail{}, fmt.Errorf("station %s detail: %w", stationID, err)
	}
	if resp.IsError() {
		return normalize.RiverDetail{}, fmt.Errorf("station %s detail: status %d", stationID, resp.StatusCode())
	}

	// The portal labels JSON responses inconsistently, so decode the body
	// ourselves instead of relying on content-type negotiation.
	var detail normalize.RiverDetail
	if err := json.Unmarshal(resp.Body(), &detail); err != nil {
		return normalize.RiverDetail{}, fmt.Errorf("station %s detail: decode: %w", stationID, err)
	}
	return detail, nil
}

func (c *Client) stationLayer(ctx context.Context, lv string) ([]feature, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("lv", lv).
		Get(c.stationListURL)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("status %d", resp.StatusCode())
	}

	var fc featureCollection
	if err := json.Unmarshal(resp.Body(), &fc); err != nil {
		return nil, fmt.Errorf("decode layer: %w", err)
	}
	return fc.Features, nil
}

// popupField extracts the bold value following a label inside a station
// popup fragment, e.g. "Mã trạm: <b>69702</b><br>Sông: <b>Sê San</b>".
func popupField(popup, label string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(popup))
	if err != nil {
		return ""
	}

	var out string
	doc.Find("b").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if prev := s.Nodes[0].PrevSibling; prev != nil && strings.Contains(prev.Data, label) {
			out = strings.TrimSpace(s.Text())
			return false
		}
		return true
	})
	return out
}

// GeoJSON layer payload.

type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	Properties struct {
		Label     string `json:"label"`
		PopupInfo string `json:"popupInfo"`
	} `json:"properties"`
	Geometry struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}
