package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/cypherlabdev/bracket-predictor-service/internal/models"
)

// KafkaPublisher pushes refreshed event snapshots to a Kafka topic for
// downstream consumers (dashboards, alerting, archival).
type KafkaPublisher struct {
	writer *kafka.Writer
	logger zerolog.Logger
}

// KafkaPublisherConfig holds Kafka publisher configuration.
type KafkaPublisherConfig struct {
	Brokers []string // e.g. ["localhost:9092"]
	Topic   string   // e.g. "event_snapshots"
}

// NewKafkaPublisher creates a Kafka publisher.
func NewKafkaPublisher(config KafkaPublisherConfig, logger zerolog.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(config.Brokers...),
		Topic:        config.Topic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		logger: logger.With().Str("component", "kafka_publisher").Logger(),
	}
}

// PublishSnapshot publishes one event snapshot, keyed by event code so a
// topic consumer sees per-event ordering.
func (p *KafkaPublisher) PublishSnapshot(ctx context.Context, snap *models.EventSnapshot) error {
	msg := models.SnapshotMessage{
		BatchID:     uuid.NewString(),
		EventCode:   snap.Code,
		Snapshot:    snap,
		PublishedAt: time.Now().UTC(),
	}

	value, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot message: %w", err)
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(snap.Code),
		Value: value,
	}); err != nil {
		return fmt.Errorf("failed to write snapshot message: %w", err)
	}

	p.logger.Debug().
		Str("event", snap.Code).
		Str("batch_id", msg.BatchID).
		Str("status", snap.StatusLabel).
		Msg("published event snapshot")
	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
