// Package config loads run settings from the environment, with an optional
// .env file for local development.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all exporter settings, populated from environment variables.
type Config struct {
	OutDir       string
	WaterCSV     string
	LandslideCSV string
	CatalogPath  string

	StationListURL string
	DetailURL      string
	LakeURL        string
	LandslideURL   string

	HTTPTimeout time.Duration
	HTTPRetries int

	WindowDays    int
	ForecastHours int

	LogLevel  string
	LogFormat string

	// Optional sinks. Kafka publishing is enabled by setting brokers;
	// the workbook and metrics exports by setting their paths.
	KafkaBrokers    []string
	KafkaAlertTopic string
	ExcelPath       string
	MetricsTextfile string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	_ = godotenv.Load(".env") // ignore missing file

	timeout, err := time.ParseDuration(envOrDefault("HTTP_TIMEOUT", "60s"))
	if err != nil || timeout <= 0 {
		return nil, errors.New("invalid HTTP_TIMEOUT")
	}
	retries, err := parseNonNegativeInt("HTTP_RETRIES", 3)
	if err != nil {
		return nil, err
	}
	windowDays, err := parsePositiveInt("WINDOW_DAYS", 7)
	if err != nil {
		return nil, err
	}
	forecastHours, err := parsePositiveInt("FORECAST_HOURS", 6)
	if err != nil {
		return nil, err
	}

	outDir := envOrDefault("OUT_DIR", "data")

	cfg := &Config{
		OutDir:       outDir,
		WaterCSV:     envOrDefault("WATER_CSV", filepath.Join(outDir, "water_data_full_combined.csv")),
		LandslideCSV: envOrDefault("LANDSLIDE_CSV", filepath.Join(outDir, "landslide.csv")),
		CatalogPath:  os.Getenv("CATALOG_PATH"),

		StationListURL: envOrDefault("STATION_LIST_URL", "https://vndms.dmptc.gov.vn/water_level"),
		DetailURL:      envOrDefault("STATION_DETAIL_URL", "https://vndms.dmc.gov.vn/home/detailRain"),
		LakeURL:        envOrDefault("LAKE_STATUS_URL", "http://e15.thuyloivietnam.vn/CanhBaoSoLieu/ATCBDTHo"),
		LandslideURL:   envOrDefault("LANDSLIDE_WARNING_URL", "https://luquetsatlo.nchmf.gov.vn/LayerMapBox/getDSCanhbaoSLLQ"),

		HTTPTimeout: timeout,
		HTTPRetries: retries,

		WindowDays:    windowDays,
		ForecastHours: forecastHours,

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		KafkaBrokers:    parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaAlertTopic: envOrDefault("KAFKA_ALERT_TOPIC", "hydro-alerts"),
		ExcelPath:       os.Getenv("EXCEL_EXPORT_PATH"),
		MetricsTextfile: os.Getenv("METRICS_TEXTFILE"),
	}

	return cfg, nil
}

// KafkaEnabled reports whether alert publishing is configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parsePositiveInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

// parseNonNegativeInt is parsePositiveInt that also admits zero, for
// settings like retry counts where zero means disabled.
func parseNonNegativeInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func parseBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
