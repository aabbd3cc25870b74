package observability

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds the Prometheus counters and gauges for one export run.
// Exports are batch processes, so instead of serving /metrics the run
// dumps its registry to a textfile the node exporter picks up.
type Metrics struct {
	registry *prometheus.Registry

	RowsFetched   *prometheus.CounterVec // labels: source={river,lake,landslide}
	FetchFailures *prometheus.CounterVec // labels: source={river,lake,landslide}
	RowsMerged    prometheus.Gauge
	RowsWritten   prometheus.Gauge
	LoadFallbacks prometheus.Counter
	RunDuration   prometheus.Histogram
	LastRun       prometheus.Gauge
}

// NewMetrics creates a metrics set on its own registry. Each run gets a
// fresh registry, so there is no shared-state registration panic and the
// textfile always reflects exactly one run.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RowsFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "rows_fetched_total",
			Help:      "Normalized rows fetched from upstream by source.",
		}, []string{"source"}),
		FetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "fetch_failures_total",
			Help:      "Fetch units (stations, days, feeds) that failed by source.",
		}, []string{"source"}),
		RowsMerged: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "floodwatch",
			Name:      "rows_merged",
			Help:      "Dataset size after merging the fetched rows.",
		}),
		RowsWritten: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "floodwatch",
			Name:      "rows_written",
			Help:      "Rows persisted to the dataset file this run.",
		}),
		LoadFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "dataset_load_fallbacks_total",
			Help:      "Runs that discarded an unreadable dataset and overwrote it.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "floodwatch",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-merge-export run.",
			Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
		}),
		LastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "floodwatch",
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}

	m.registry.MustRegister(
		m.RowsFetched,
		m.FetchFailures,
		m.RowsMerged,
		m.RowsWritten,
		m.LoadFallbacks,
		m.RunDuration,
		m.LastRun,
	)
	return m
}

// ObserveRun records the run duration and completion time.
func (m *Metrics) ObserveRun(start time.Time) {
	m.RunDuration.Observe(time.Since(start).Seconds())
	m.LastRun.SetToCurrentTime()
}

// WriteTextfile renders the registry in the Prometheus text exposition
// format and writes it atomically enough for a textfile collector (full
// buffer, single WriteFile).
func (m *Metrics) WriteTextfile(path string) error {
	mfs, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	var buf bytes.Buffer
	enc := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range mfs {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
