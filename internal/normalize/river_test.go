package normalize

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minhtq/floodwatch/internal/catalog"
	"github.com/minhtq/floodwatch/internal/domain"
)

// testWindow freezes the clock mid-November 2024 and returns a 7-day window
// ending on the 16th.
func testWindow(t *testing.T) domain.Window {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, 11, 16, 12, 0, 0, 0, domain.LocalZone)))
	t.Cleanup(func() { domain.SetClock(nil) })
	return domain.ComputeWindow(time.Time{}, 7)
}

func TestRiver(t *testing.T) {
	cat := catalog.Default()
	meta := StationMeta{ID: "71540", Name: "Tra Khuc (upstream)", River: "Song Tra Khuc"}

	t.Run("normalizes the overlapping series prefix", func(t *testing.T) {
		w := testWindow(t)
		d := RiverDetail{
			BD1:      "3.5,",
			BD2:      "5.0,",
			BD3:      "6.5,",
			Labels:   "1h \n15/11,7h \n15/11,13h \n15/11",
			Values:   "3.2,5.1", // one shorter than labels
			Province: "Quảng Ngãi",
		}

		rows := River(cat, meta, d, w)
		require.Len(t, rows, 2)

		first := rows[0]
		assert.Equal(t, domain.TypeRiver, first.Type)
		assert.Equal(t, "71540", first.EntityID)
		assert.Equal(t, "Trà Khúc", first.Name)  // catalog recode wins
		assert.Equal(t, "Trà Khúc", first.Basin) // catalog recode wins
		assert.Equal(t, "Quảng Ngãi", first.Province)
		assert.Equal(t, time.Date(2024, 11, 15, 1, 0, 0, 0, domain.LocalZone), first.Timestamp)
		require.NotNil(t, first.WaterLevel)
		assert.Equal(t, 3.2, *first.WaterLevel)
		assert.Equal(t, "Dưới BĐ1", first.AlertStatus)
		require.NotNil(t, first.AlertValue)
		assert.Equal(t, 0, *first.AlertValue)
		require.NotNil(t, first.AlertDiff)
		assert.Equal(t, -0.3, *first.AlertDiff)

		second := rows[1]
		require.NotNil(t, second.AlertValue)
		assert.Equal(t, 2, *second.AlertValue)
		assert.Equal(t, "Trên BĐ2", second.AlertStatus)
	})

	t.Run("station absent from catalog yields nothing", func(t *testing.T) {
		w := testWindow(t)
		d := RiverDetail{Labels: "7h \n15/11", Values: "3.2"}

		rows := River(cat, StationMeta{ID: "00000"}, d, w)
		assert.Empty(t, rows)
	})

	t.Run("missing sentinels map to null readings", func(t *testing.T) {
		w := testWindow(t)
		d := RiverDetail{
			BD1:    "3.5",
			Labels: "1h \n15/11,7h \n15/11,13h \n15/11,19h \n15/11",
			Values: "-,null,NULL,garbage",
		}

		rows := River(cat, meta, d, w)
		require.Len(t, rows, 4)
		for i, r := range rows {
			assert.Nil(t, r.WaterLevel, "row %d", i)
			require.NotNil(t, r.AlertValue)
			assert.Equal(t, 0, *r.AlertValue, "row %d", i)
			assert.Nil(t, r.AlertDiff, "row %d", i)
		}
	})

	t.Run("unparseable labels and pre-window rows are dropped", func(t *testing.T) {
		domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, 11, 16, 12, 0, 0, 0, domain.LocalZone)))
		t.Cleanup(func() { domain.SetClock(nil) })
		w := domain.ComputeWindow(time.Date(2024, 11, 14, 0, 0, 0, 0, domain.LocalZone), 7)

		d := RiverDetail{
			Labels: "bogus,7h \n13/11,7h \n15/11",
			Values: "1.0,2.0,3.0",
		}

		rows := River(cat, meta, d, w)
		require.Len(t, rows, 1)
		assert.Equal(t, 3.0, *rows[0].WaterLevel)
	})

	t.Run("upstream name and basin used when recode entry is blank", func(t *testing.T) {
		w := testWindow(t)
		sparse := catalog.Catalog{Stations: map[string]catalog.Station{"71540": {}}}
		d := RiverDetail{
			NameVN:    "Trạm Trà Khúc",
			RiverName: "Sông Trà Khúc",
			Labels:    "7h \n15/11",
			Values:    "1.0",
		}

		rows := River(sparse, meta, d, w)
		require.Len(t, rows, 1)
		assert.Equal(t, "Trạm Trà Khúc", rows[0].Name)
		assert.Equal(t, "Sông Trà Khúc", rows[0].Basin)
	})
}

func TestFirstNumber(t *testing.T) {
	tests := []struct {
		raw  string
		want *float64
	}{
		{"3.5,", domain.Float(3.5)},
		{"3.5,4.0", domain.Float(3.5)},
		{" 2 ", domain.Float(2)},
		{"0", nil},
		{"-1.5", nil},
		{"", nil},
		{"abc", nil},
	}
	for _, tt := range tests {
		got := firstNumber(tt.raw)
		if tt.want == nil {
			assert.Nil(t, got, "raw %q", tt.raw)
		} else {
			require.NotNil(t, got, "raw %q", tt.raw)
			assert.Equal(t, *tt.want, *got)
		}
	}
}
