package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/minhtq/floodwatch/internal/domain"
	"github.com/minhtq/floodwatch/internal/normalize"
	"github.com/minhtq/floodwatch/internal/observability"
)

// WarningClient is the landslide feed surface the landslide run needs.
type WarningClient interface {
	Warnings(ctx context.Context, issuedAt time.Time) ([]normalize.LandslideRecord, error)
}

// LandslideStore persists the warning snapshot.
type LandslideStore interface {
	Write(rows []domain.Reading) error
	Path() string
}

// Landslide runs the warning snapshot export. Unlike the water run it does
// not accumulate: each run replaces the file with the warnings active right
// now, because an expired warning is worse than no row at all.
type Landslide struct {
	client    WarningClient
	store     LandslideStore
	publisher AlertPublisher // optional
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// NewLandslide creates the landslide pipeline. publisher may be nil.
func NewLandslide(client WarningClient, store LandslideStore, publisher AlertPublisher,
	logger *slog.Logger, metrics *observability.Metrics) *Landslide {
	return &Landslide{
		client:    client,
		store:     store,
		publisher: publisher,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run fetches the active warnings and replaces the snapshot file. A fetch
// failure still writes a header-only file so consumers never act on stale
// warnings.
func (p *Landslide) Run(ctx context.Context) error {
	start := time.Now()
	defer p.metrics.ObserveRun(start)

	issuedAt := domain.Now().Truncate(time.Hour)

	records, err := p.client.Warnings(ctx, issuedAt)
	if err != nil {
		p.logger.Error("warning fetch failed, clearing snapshot", "error", err)
		p.metrics.FetchFailures.WithLabelValues("landslide").Inc()
		records = nil
	}

	rows := make([]domain.Reading, 0, len(records))
	for _, rec := range records {
		if r, ok := normalize.Landslide(rec, issuedAt); ok {
			rows = append(rows, r)
		}
	}
	rows = domain.DedupBySeverity(rows)

	p.metrics.RowsFetched.WithLabelValues("landslide").Add(float64(len(rows)))
	p.metrics.RowsMerged.Set(float64(len(rows)))

	if err := p.store.Write(rows); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	p.metrics.RowsWritten.Set(float64(len(rows)))
	p.logger.Info("snapshot written", "path", p.store.Path(), "warnings", len(rows),
		"issued_at", issuedAt.Format(time.DateTime))

	if p.publisher != nil && len(rows) > 0 {
		if err := p.publisher.PublishAlerts(ctx, rows); err != nil {
			p.logger.Error("alert publish failed", "alerts", len(rows), "error", err)
		} else {
			p.logger.Info("alerts published", "alerts", len(rows))
		}
	}
	return nil
}
