// Command landslideexport snapshots the currently active commune landslide
// and flash-flood warnings into a CSV file, replacing the previous
// snapshot, and optionally publishes the warnings to Kafka.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/minhtq/floodwatch/internal/adapter/csvstore"
	"github.com/minhtq/floodwatch/internal/adapter/kafkasink"
	"github.com/minhtq/floodwatch/internal/adapter/nchmf"
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

	if err := os.MkdirAll(filepath.Dir(cfg.LandslideCSV), 0o755); err != nil {
		logger.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}

	client := nchmf.NewClient(nchmf.Options{
		URL:           cfg.LandslideURL,
		ForecastHours: cfg.ForecastHours,
		Timeout:       cfg.HTTPTimeout,
		Retries:       cfg.HTTPRetries,
	}, logger)
	store := csvstore.NewLandslide(cfg.LandslideCSV)

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

	p := pipeline.NewLandslide(client, store, publisher, logger, metrics)

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
