// Package kafka publishes freshly built observations to a sink topic, for
// deployments that fan the station snapshot out to downstream consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/buoy-report-service/internal/config"
	"github.com/couchcryptid/buoy-report-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces observation messages to a Kafka topic.
// It implements pipeline.ObservationPublisher.
type Publisher struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured sink topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, logger: logger}
}

// Publish serializes one observation and writes it to the sink topic.
func (p *Publisher) Publish(ctx context.Context, o domain.Observation) error {
	msg, err := serializeToMessage(o)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals an Observation into a Kafka message keyed by
// station, so one partition holds one station's history in order.
func serializeToMessage(o domain.Observation) (kafkago.Message, error) {
	data, err := json.Marshal(o)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize observation: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(o.StationID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "station_id", Value: []byte(o.StationID)},
			{Key: "observed_at", Value: []byte(o.ObservedAt.Format(time.RFC3339))},
		},
	}, nil
}
