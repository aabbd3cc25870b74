package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RowsFetched.WithLabelValues("river").Add(42)
	m.FetchFailures.WithLabelValues("lake").Inc()
	m.RowsMerged.Set(1200)
	m.ObserveRun(time.Now().Add(-3 * time.Second))

	path := filepath.Join(t.TempDir(), "floodwatch.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.Contains(t, out, `floodwatch_rows_fetched_total{source="river"} 42`)
	assert.Contains(t, out, `floodwatch_fetch_failures_total{source="lake"} 1`)
	assert.Contains(t, out, "floodwatch_rows_merged 1200")
	assert.Contains(t, out, "floodwatch_run_duration_seconds_count 1")
	assert.Contains(t, out, "floodwatch_last_run_timestamp_seconds")
}

func TestNewMetricsIndependentRegistries(t *testing.T) {
	// Two runs in one process must not trip duplicate registration.
	assert.NotPanics(t, func() {
		NewMetrics()
		NewMetrics()
	})
}

func TestNewLoggerFallsBack(t *testing.T) {
	assert.NotNil(t, NewLogger("verbose", "yaml"))
	assert.NotNil(t, NewLogger("debug", "text"))
}
