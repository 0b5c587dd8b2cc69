package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stockcast/backend-go/internal/config"
	"github.com/stockcast/backend-go/pkg/logger"
)

// AlertPublisher pushes alert events to downstream consumers.
type AlertPublisher interface {
	PublishAlertRaised(ctx context.Context, event AlertRaisedEvent) error
	Close() error
}

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	log      zerolog.Logger
}

type noopPublisher struct{}

// NewAlertPublisher returns a Kafka-backed publisher, or a no-op one when
// Kafka is disabled in config.
func NewAlertPublisher(cfg config.KafkaConfig) (AlertPublisher, error) {
	if !cfg.Enabled {
		return &noopPublisher{}, nil
	}

	sc := sarama.NewConfig()
	sc.Producer.Return.Successes = true
	sc.Producer.Retry.Max = 3
	sc.Producer.RequiredAcks = sarama.WaitForAll
	sc.Producer.Compression = sarama.CompressionSnappy

	producer, err := sarama.NewSyncProducer(cfg.Brokers, sc)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	log := logger.Component("events")
	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topic", cfg.Topic).
		Msg("Kafka alert publisher initialized")

	return &kafkaPublisher{
		producer: producer,
		topic:    cfg.Topic,
		log:      log,
	}, nil
}

func NewNoopPublisher() AlertPublisher {
	return &noopPublisher{}
}

func (p *kafkaPublisher) PublishAlertRaised(ctx context.Context, event AlertRaisedEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	event.EventType = EventTypeAlertRaised
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(fmt.Sprintf("product_%d", event.ProductID)),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(event.EventType)},
			{Key: []byte("event_id"), Value: []byte(event.EventID)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.log.Error().
			Err(err).
			Str("topic", p.topic).
			Int64("product_id", event.ProductID).
			Msg("Failed to publish alert event")
		return fmt.Errorf("failed to send message to kafka: %w", err)
	}

	p.log.Info().
		Str("event_id", event.EventID).
		Str("alert_type", event.AlertType).
		Int32("partition", partition).
		Int64("offset", offset).
		Int64("product_id", event.ProductID).
		Msg("Alert event published")

	return nil
}

func (p *kafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

func (n *noopPublisher) PublishAlertRaised(ctx context.Context, event AlertRaisedEvent) error {
	return nil
}

func (n *noopPublisher) Close() error { return nil }
