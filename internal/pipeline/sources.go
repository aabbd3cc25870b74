package pipeline

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/minhtq/floodwatch/internal/catalog"
	"github.com/minhtq/floodwatch/internal/domain"
	"github.com/minhtq/floodwatch/internal/normalize"
)

// RiverClient is the station API surface the river source needs.
type RiverClient interface {
	Stations(ctx context.Context, keep func(id string) bool) (map[string]normalize.StationMeta, error)
	Detail(ctx context.Context, stationID string) (normalize.RiverDetail, error)
}

// RiverSource fetches gauge series station by station.
type RiverSource struct {
	client  RiverClient
	catalog catalog.Catalog
	logger  *slog.Logger
}

// NewRiverSource creates the river gauge source.
func NewRiverSource(client RiverClient, cat catalog.Catalog, logger *slog.Logger) *RiverSource {
	return &RiverSource{client: client, catalog: cat, logger: logger}
}

func (s *RiverSource) Name() string { return "river" }

// Fetch discovers the tracked stations, then pulls and normalizes each
// station's series. Discovery failure is terminal for the source; a single
// station's failure is just its outcome.
func (s *RiverSource) Fetch(ctx context.Context, w domain.Window) ([]domain.Reading, []Outcome) {
	stations, err := s.client.Stations(ctx, func(id string) bool {
		_, ok := s.catalog.Stations[id]
		return ok
	})
	if err != nil {
		return nil, []Outcome{{Source: s.Name(), Unit: "discovery", Err: err}}
	}

	ids := make([]string, 0, len(stations))
	for id := range stations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var all []domain.Reading
	outcomes := make([]Outcome, 0, len(ids))
	for _, id := range ids {
		detail, err := s.client.Detail(ctx, id)
		if err != nil {
			outcomes = append(outcomes, Outcome{Source: s.Name(), Unit: id, Err: err})
			continue
		}
		rows := normalize.River(s.catalog, stations[id], detail, w)
		outcomes = append(outcomes, Outcome{Source: s.Name(), Unit: id, Rows: len(rows)})
		all = append(all, rows...)
	}
	return all, outcomes
}

// LakeClient is the reservoir API surface the lake source needs.
type LakeClient interface {
	DayStatus(ctx context.Context, day time.Time) ([]normalize.LakeRecord, error)
}

// LakeSource fetches reservoir status day by day, because the upstream
// endpoint only answers for a single date.
type LakeSource struct {
	client  LakeClient
	catalog catalog.Catalog
	logger  *slog.Logger
}

// NewLakeSource creates the reservoir source.
func NewLakeSource(client LakeClient, cat catalog.Catalog, logger *slog.Logger) *LakeSource {
	return &LakeSource{client: client, catalog: cat, logger: logger}
}

func (s *LakeSource) Name() string { return "lake" }

// Fetch queries each date in the window and normalizes the tracked lakes.
// A failed date is reported and skipped; the remaining dates still run.
func (s *LakeSource) Fetch(ctx context.Context, w domain.Window) ([]domain.Reading, []Outcome) {
	var all []domain.Reading
	var outcomes []Outcome
	for _, day := range w.Days() {
		unit := day.Format(time.DateOnly)
		records, err := s.client.DayStatus(ctx, day)
		if err != nil {
			outcomes = append(outcomes, Outcome{Source: s.Name(), Unit: unit, Err: err})
			continue
		}
		count := 0
		for _, rec := range records {
			if r, ok := normalize.Lake(s.catalog, rec, w); ok {
				all = append(all, r)
				count++
			}
		}
		outcomes = append(outcomes, Outcome{Source: s.Name(), Unit: unit, Rows: count})
	}
	return all, outcomes
}
