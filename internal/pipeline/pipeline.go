// Package pipeline orchestrates the fetch-normalize-merge-export runs.
//
// A run is a batch: compute the fetch window from the persisted dataset,
// fetch every source, merge into the dataset, write, and hand actionable
// rows to the optional sinks. Individual fetch units (a station, a day)
// may fail without aborting the run; their outcomes are logged at the end.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/minhtq/floodwatch/internal/domain"
	"github.com/minhtq/floodwatch/internal/merge"
	"github.com/minhtq/floodwatch/internal/observability"
)

// Outcome records how one fetch unit fared within a run.
type Outcome struct {
	Source string // river, lake, landslide
	Unit   string // station ID, date, or feed name
	Rows   int
	Err    error
}

// Source produces normalized readings for a fetch window. Implementations
// absorb per-unit failures and report them as outcomes so one dead station
// never aborts a run.
type Source interface {
	Name() string
	Fetch(ctx context.Context, w domain.Window) ([]domain.Reading, []Outcome)
}

// WaterStore is the persisted-dataset capability the water run needs.
type WaterStore interface {
	Load() ([]domain.Reading, error)
	Write(rows []domain.Reading) error
	Path() string
}

// AlertPublisher forwards actionable rows to an external sink.
type AlertPublisher interface {
	PublishAlerts(ctx context.Context, rows []domain.Reading) error
}

// Exporter mirrors the merged dataset in an additional format.
type Exporter interface {
	Export(rows []domain.Reading) error
	Path() string
}

// Water runs the combined river/lake export.
type Water struct {
	sources    []Source
	store      WaterStore
	publisher  AlertPublisher // optional
	exporter   Exporter       // optional
	logger     *slog.Logger
	metrics    *observability.Metrics
	windowDays int
}

// NewWater creates the water pipeline. publisher and exporter may be nil.
func NewWater(sources []Source, store WaterStore, publisher AlertPublisher, exporter Exporter,
	logger *slog.Logger, metrics *observability.Metrics, windowDays int) *Water {
	return &Water{
		sources:    sources,
		store:      store,
		publisher:  publisher,
		exporter:   exporter,
		logger:     logger,
		metrics:    metrics,
		windowDays: windowDays,
	}
}

// Run executes one fetch-merge-export cycle.
func (p *Water) Run(ctx context.Context) error {
	start := time.Now()
	defer p.metrics.ObserveRun(start)

	existing := p.loadExisting()
	w := domain.ComputeWindow(domain.MaxTimestamp(existing), p.windowDays)
	p.logger.Info("fetch window computed",
		"start", w.Start.Format(time.DateOnly),
		"end", w.End.Format(time.DateOnly),
		"existing_rows", len(existing))

	var incoming []domain.Reading
	var outcomes []Outcome
	for _, s := range p.sources {
		rows, ocs := s.Fetch(ctx, w)
		incoming = append(incoming, rows...)
		outcomes = append(outcomes, ocs...)
		p.metrics.RowsFetched.WithLabelValues(s.Name()).Add(float64(len(rows)))
	}
	p.reportOutcomes(outcomes, len(incoming))

	if len(incoming) == 0 {
		// Nothing fetched across every source. Keep the dataset as is;
		// replacing it with the stale in-memory copy gains nothing and an
		// all-sources outage must not truncate history.
		p.logger.Warn("no rows fetched, dataset left untouched")
		return nil
	}

	merged := merge.Merge(existing, incoming)
	p.metrics.RowsMerged.Set(float64(len(merged)))

	if err := p.store.Write(merged); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	p.metrics.RowsWritten.Set(float64(len(merged)))
	p.logger.Info("dataset written", "path", p.store.Path(), "rows", len(merged), "new_rows", len(incoming))

	p.publish(ctx, incoming)
	p.export(merged)
	return nil
}

// loadExisting reads the persisted dataset. A missing file is a fresh
// start; an unreadable one is discarded with a warning, sacrificing
// history older than the fallback window rather than failing every
// subsequent run.
func (p *Water) loadExisting() []domain.Reading {
	rows, err := p.store.Load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.logger.Info("no existing dataset, starting fresh", "path", p.store.Path())
		} else {
			p.logger.Warn("existing dataset unreadable, falling back to overwrite",
				"path", p.store.Path(), "error", err)
			p.metrics.LoadFallbacks.Inc()
		}
		return nil
	}
	return rows
}

func (p *Water) reportOutcomes(outcomes []Outcome, rows int) {
	failed := 0
	for _, oc := range outcomes {
		if oc.Err != nil {
			failed++
			p.logger.Warn("fetch unit failed", "source", oc.Source, "unit", oc.Unit, "error", oc.Err)
			p.metrics.FetchFailures.WithLabelValues(oc.Source).Inc()
		}
	}
	p.logger.Info("fetch complete", "rows", rows, "units", len(outcomes), "failed_units", failed)
}

// publish forwards the run's new rows that sit at alert rank 1 or above.
// Publishing is best effort: the dataset is already written, so a sink
// outage only costs a notification, never data.
func (p *Water) publish(ctx context.Context, incoming []domain.Reading) {
	if p.publisher == nil {
		return
	}
	var alerts []domain.Reading
	for _, r := range incoming {
		if r.AlertValue != nil && *r.AlertValue >= 1 {
			alerts = append(alerts, r)
		}
	}
	if len(alerts) == 0 {
		return
	}
	if err := p.publisher.PublishAlerts(ctx, alerts); err != nil {
		p.logger.Error("alert publish failed", "alerts", len(alerts), "error", err)
		return
	}
	p.logger.Info("alerts published", "alerts", len(alerts))
}

func (p *Water) export(merged []domain.Reading) {
	if p.exporter == nil {
		return
	}
	if err := p.exporter.Export(merged); err != nil {
		p.logger.Error("workbook export failed", "path", p.exporter.Path(), "error", err)
		return
	}
	p.logger.Info("workbook exported", "path", p.exporter.Path(), "rows", len(merged))
}
