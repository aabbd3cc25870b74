// Command waterexport runs one combined river/lake export: it fetches the
// tracked gauges and reservoirs for the inferred window, merges the rows
// into the persisted CSV dataset, and feeds the optional Kafka, workbook,
// and metrics-textfile sinks.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/minhtq/floodwatch/internal/adapter/csvstore"
	"github.com/minhtq/floodwatch/internal/adapter/excel"
	"github.com/minhtq/floodwatch/internal/adapter/kafkasink"
	"github.com/minhtq/floodwatch/internal/adapter/thuyloi"
	"github.com/minhtq/floodwatch/internal/adapter/vndms"
	"github.com/minhtq/floodwatch/internal/catalog"
	"github.com/minhtq/floodwatch/internal/config"
	"github.com/minhtq/floodwatch/internal/observability"
	"github.com/minhtq/floodwatch/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	cat, err := loadCatalog(cfg, logger)
	if err != nil {
		logger.Error("failed to load catalog", "path", cfg.CatalogPath, "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.WaterCSV), 0o755); err != nil {
		logger.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	riverClient := vndms.NewClient(vndms.Options{
		StationListURL: cfg.StationListURL,
		DetailURL:      cfg.DetailURL,
		Timeout:        cfg.HTTPTimeout,
		Retries:        cfg.HTTPRetries,
	}, logger)
	lakeClient := thuyloi.NewClient(thuyloi.Options{
		URL:     cfg.LakeURL,
		Timeout: cfg.HTTPTimeout,
		Retries: cfg.HTTPRetries,
	}, logger)

	sources := []pipeline.Source{
		pipeline.NewRiverSource(riverClient, cat, logger),
		pipeline.NewLakeSource(lakeClient, cat, logger),
	}
	store := csvstore.NewWater(cfg.WaterCSV)

	var publisher pipeline.AlertPublisher
	if cfg.KafkaEnabled() {
		writer := kafkasink.NewWriter(cfg.KafkaBrokers, cfg.KafkaAlertTopic, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		publisher = writer
		logger.Info("alert publishing enabled", "topic", cfg.KafkaAlertTopic)
	}

	var exporter pipeline.Exporter
	if cfg.ExcelPath != "" {
		exporter = excel.NewExporter(cfg.ExcelPath)
	}

	p := pipeline.NewWater(sources, store, publisher, exporter, logger, metrics, cfg.WindowDays)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runErr := p.Run(ctx)

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Error("metrics textfile write failed", "error", err)
		}
	}

	if runErr != nil {
		logger.Error("export failed", "error", runErr)
		os.Exit(1)
	}
}

func loadCatalog(cfg *config.Config, logger *slog.Logger) (catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return catalog.Catalog{}, err
	}
	logger.Info("catalog overrides loaded", "path", cfg.CatalogPath,
		"stations", len(cat.Stations), "lakes", len(cat.Lakes))
	return cat, nil
}
