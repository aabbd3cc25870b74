package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtq/floodwatch/internal/catalog"
	"github.com/minhtq/floodwatch/internal/domain"
	"github.com/minhtq/floodwatch/internal/normalize"
)

type stubRiverClient struct {
	stations   map[string]normalize.StationMeta
	stationErr error
	details    map[string]normalize.RiverDetail
	detailErr  map[string]error
}

func (c *stubRiverClient) Stations(_ context.Context, keep func(id string) bool) (map[string]normalize.StationMeta, error) {
	if c.stationErr != nil {
		return nil, c.stationErr
	}
	out := make(map[string]normalize.StationMeta)
	for id, meta := range c.stations {
		if keep(id) {
			out[id] = meta
		}
	}
	return out, nil
}

func (c *stubRiverClient) Detail(_ context.Context, stationID string) (normalize.RiverDetail, error) {
	if err := c.detailErr[stationID]; err != nil {
		return normalize.RiverDetail{}, err
	}
	return c.details[stationID], nil
}

func TestRiverSourceFetch(t *testing.T) {
	ctx := context.Background()
	cat := catalog.Default()
	detail := normalize.RiverDetail{
		BD1:    "3.5",
		Labels: "7h \n15/11",
		Values: "3.2",
	}

	t.Run("normalizes each discovered station", func(t *testing.T) {
		freeze(t)
		w := domain.ComputeWindow(time.Time{}, 7)
		client := &stubRiverClient{
			stations: map[string]normalize.StationMeta{
				"71540": {ID: "71540"},
				"71518": {ID: "71518"},
				"99999": {ID: "99999"}, // untracked, filtered by keep
			},
			details: map[string]normalize.RiverDetail{"71540": detail, "71518": detail},
		}

		src := NewRiverSource(client, cat, testLogger())
		rows, outcomes := src.Fetch(ctx, w)

		assert.Len(t, rows, 2)
		require.Len(t, outcomes, 2)
		// Outcomes come back in station ID order.
		assert.Equal(t, "71518", outcomes[0].Unit)
		assert.Equal(t, "71540", outcomes[1].Unit)
		for _, oc := range outcomes {
			assert.NoError(t, oc.Err)
			assert.Equal(t, 1, oc.Rows)
		}
	})

	t.Run("one failing station does not stop the rest", func(t *testing.T) {
		freeze(t)
		w := domain.ComputeWindow(time.Time{}, 7)
		client := &stubRiverClient{
			stations: map[string]normalize.StationMeta{
				"71540": {ID: "71540"},
				"71518": {ID: "71518"},
			},
			details:   map[string]normalize.RiverDetail{"71540": detail},
			detailErr: map[string]error{"71518": errors.New("502 bad gateway")},
		}

		src := NewRiverSource(client, cat, testLogger())
		rows, outcomes := src.Fetch(ctx, w)

		assert.Len(t, rows, 1)
		require.Len(t, outcomes, 2)
		assert.Error(t, outcomes[0].Err)
		assert.NoError(t, outcomes[1].Err)
	})

	t.Run("discovery failure is terminal for the source", func(t *testing.T) {
		freeze(t)
		w := domain.ComputeWindow(time.Time{}, 7)
		client := &stubRiverClient{stationErr: errors.New("connection refused")}

		src := NewRiverSource(client, cat, testLogger())
		rows, outcomes := src.Fetch(ctx, w)

		assert.Empty(t, rows)
		require.Len(t, outcomes, 1)
		assert.Equal(t, "discovery", outcomes[0].Unit)
		assert.Error(t, outcomes[0].Err)
	})
}

type stubLakeClient struct {
	byDay map[string][]normalize.LakeRecord
	errs  map[string]error
	days  []string
}

func (c *stubLakeClient) DayStatus(_ context.Context, day time.Time) ([]normalize.LakeRecord, error) {
	key := day.Format(time.DateOnly)
	c.days = append(c.days, key)
	if err := c.errs[key]; err != nil {
		return nil, err
	}
	return c.byDay[key], nil
}

func TestLakeSourceFetch(t *testing.T) {
	ctx := context.Background()
	cat := catalog.Default()
	const taTrachID = "fd622826-9f2e-4130-8995-1654bac81895"

	t.Run("queries every window day and skips failures", func(t *testing.T) {
		freeze(t)
		w := domain.Window{
			Start: time.Date(2024, 11, 14, 0, 0, 0, 0, domain.LocalZone),
			End:   time.Date(2024, 11, 16, 0, 0, 0, 0, domain.LocalZone),
		}
		client := &stubLakeClient{
			byDay: map[string][]normalize.LakeRecord{
				// 2024-11-15 00:00 UTC = 07:00 local
				"2024-11-15": {
					{LakeCode: taTrachID, UpdatedAt: "1731628800000"},
					{LakeCode: "deadbeef", UpdatedAt: "1731628800000"}, // untracked
				},
			},
			errs: map[string]error{"2024-11-16": errors.New("timeout")},
		}

		src := NewLakeSource(client, cat, testLogger())
		rows, outcomes := src.Fetch(ctx, w)

		assert.Equal(t, []string{"2024-11-14", "2024-11-15", "2024-11-16"}, client.days)
		require.Len(t, rows, 1)
		assert.Equal(t, taTrachID, rows[0].EntityID)

		require.Len(t, outcomes, 3)
		assert.Equal(t, 0, outcomes[0].Rows)
		assert.Equal(t, 1, outcomes[1].Rows)
		assert.Error(t, outcomes[2].Err)
	})
}
