package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/FaridBenamara/Bill-z/internal/config"
	"github.com/segmentio/kafka-go"
)

// ReconciliationEventProducer publishes one event per committed reconciliation
// so downstream consumers (exports, notifications) can react without polling.
type ReconciliationEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewReconciliationEventProducer creates the producer and ensures the topic exists
func NewReconciliationEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*ReconciliationEventProducer, error) {
	if cfg.ReconciliationTopic == "" {
		return nil, fmt.Errorf("kafka reconciliation topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for reconciliation event producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.ReconciliationTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure reconciliation topic %s exists: %w", cfg.ReconciliationTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.ReconciliationTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Event emission is best-effort, never blocks a commit
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write messages asynchronously", "topic", cfg.ReconciliationTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote messages asynchronously", "topic", cfg.ReconciliationTopic, "count", len(messages))
			}
		},
	}

	return &ReconciliationEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.ReconciliationTopic,
	}, nil
}

func (p *ReconciliationEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal reconciliation event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish reconciliation event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish reconciliation event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published reconciliation event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *ReconciliationEventProducer) Close() error {
	p.logger.Info("Closing reconciliation event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
