// Package kafkasink publishes actionable readings to a Kafka topic so
// downstream notification services do not have to poll the CSV exports.
// The sink is optional: runs without configured brokers skip it entirely.
package kafkasink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/minhtq/floodwatch/internal/domain"
)

// Writer produces alert messages to a Kafka topic.
// It implements pipeline.AlertPublisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the alert topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishAlerts serializes and publishes the readings in a single
// WriteMessages call for efficiency.
func (w *Writer) PublishAlerts(ctx context.Context, rows []domain.Reading) error {
	if len(rows) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(rows))
	for i := range rows {
		msg, err := serializeToMessage(rows[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	return w.writer.WriteMessages(ctx, msgs...)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// alertMessage is the wire shape of a published reading. Only the fields a
// notifier needs; the full record stays in the dataset files.
type alertMessage struct {
	Type           string   `json:"type"`
	EntityID       string   `json:"entity_id"`
	Name           string   `json:"name"`
	Basin          string   `json:"basin,omitempty"`
	Province       string   `json:"province,omitempty"`
	Timestamp      string   `json:"timestamp"`
	WaterLevel     *float64 `json:"water_level,omitempty"`
	AlertStatus    string   `json:"alert_status,omitempty"`
	AlertValue     *int     `json:"alert_value,omitempty"`
	AlertDiff      *float64 `json:"alert_diff,omitempty"`
	ErosionRisk    string   `json:"erosion_risk,omitempty"`
	FlashFloodRisk string   `json:"flash_flood_risk,omitempty"`
}

// serializeToMessage marshals a reading into a Kafka message keyed by the
// dataset identity so a compacted topic keeps one message per entity.
func serializeToMessage(r domain.Reading) (kafkago.Message, error) {
	data, err := json.Marshal(alertMessage{
		Type:           string(r.Type),
		EntityID:       r.EntityID,
		Name:           r.Name,
		Basin:          r.Basin,
		Province:       r.Province,
		Timestamp:      r.Timestamp.Format(time.RFC3339),
		WaterLevel:     r.WaterLevel,
		AlertStatus:    r.AlertStatus,
		AlertValue:     r.AlertValue,
		AlertDiff:      r.AlertDiff,
		ErosionRisk:    r.ErosionRisk,
		FlashFloodRisk: r.FlashFloodRisk,
	})
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(string(r.Type) + "-" + r.EntityID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "reading_type", Value: []byte(r.Type)},
			{Key: "observed_at", Value: []byte(r.Timestamp.Format(time.RFC3339))},
		},
	}, nil
}
