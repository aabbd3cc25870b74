package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// freezeAt pins the domain clock for the duration of a test.
func freezeAt(t *testing.T, at time.Time) {
	t.Helper()
	SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { SetClock(nil) })
}

func TestParseStationLabel(t *testing.T) {
	t.Run("hour-minute-day shape uses current month", func(t *testing.T) {
		freezeAt(t, time.Date(2024, 7, 20, 10, 0, 0, 0, LocalZone))

		got, ok := ParseStationLabel("7h30/12")
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 7, 12, 7, 30, 0, 0, LocalZone), got)
	})

	t.Run("hour-day-month shape with embedded newline", func(t *testing.T) {
		freezeAt(t, time.Date(2024, 11, 16, 10, 0, 0, 0, LocalZone))

		got, ok := ParseStationLabel("0h \n15/11")
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 11, 15, 0, 0, 0, 0, LocalZone), got)
	})

	t.Run("december label read in january rolls year back", func(t *testing.T) {
		freezeAt(t, time.Date(2025, 1, 2, 10, 0, 0, 0, LocalZone))

		got, ok := ParseStationLabel("6h \n30/12")
		require.True(t, ok)
		assert.Equal(t, time.Date(2024, 12, 30, 6, 0, 0, 0, LocalZone), got)
	})

	t.Run("november label read in january keeps current year", func(t *testing.T) {
		freezeAt(t, time.Date(2025, 1, 2, 10, 0, 0, 0, LocalZone))

		got, ok := ParseStationLabel("6h \n30/11")
		require.True(t, ok)
		assert.Equal(t, 2025, got.Year())
	})

	t.Run("impossible civil date is unparseable", func(t *testing.T) {
		freezeAt(t, time.Date(2024, 11, 16, 10, 0, 0, 0, LocalZone))

		// Day 31 in a 30-day month must not normalize into December 1.
		_, ok := ParseStationLabel("7h \n31/11")
		assert.False(t, ok)
	})

	t.Run("unmatched labels", func(t *testing.T) {
		freezeAt(t, time.Date(2024, 7, 20, 10, 0, 0, 0, LocalZone))

		for _, label := range []string{"", "   ", "no time here", "12:30 15/11", "h5/11"} {
			_, ok := ParseStationLabel(label)
			assert.False(t, ok, "label %q", label)
		}
	})

	t.Run("out of range hour falls through to no match", func(t *testing.T) {
		freezeAt(t, time.Date(2024, 7, 20, 10, 0, 0, 0, LocalZone))

		_, ok := ParseStationLabel("25h \n15/7")
		assert.False(t, ok)
	})
}

func TestParseEpochMillis(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
		ok   bool
	}{
		{
			name: "plain milliseconds",
			raw:  "1731628800000", // 2024-11-15 00:00:00 UTC
			want: time.Date(2024, 11, 15, 7, 0, 0, 0, LocalZone),
			ok:   true,
		},
		{
			name: "digits embedded in wrapper text",
			raw:  "/Date(1731628800000)/",
			want: time.Date(2024, 11, 15, 7, 0, 0, 0, LocalZone),
			ok:   true,
		},
		{
			name: "no digits",
			raw:  "n/a",
			ok:   false,
		},
		{
			name: "empty",
			raw:  "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseEpochMillis(tt.raw)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.True(t, got.Equal(tt.want), "got %v want %v", got, tt.want)
			}
		})
	}
}
