package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ledgermind/categorization-engine/internal/config"
	"github.com/segmentio/kafka-go"
)

// CompletionProducer publishes completion events drained from the outbox.
// Writes are synchronous with full acks: an event is only marked processed
// in the outbox after the broker has accepted it.
type CompletionProducer struct {
	logger *slog.Logger
	writer KafkaWriter
	topic  string
}

// NewCompletionProducer creates the completion-event producer and ensures the topic exists
func NewCompletionProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*CompletionProducer, error) {
	if cfg.CompletionTopic == "" {
		return nil, fmt.Errorf("kafka completion topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for completion producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.CompletionTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure completion topic %s exists: %w", cfg.CompletionTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.CompletionTopic,
		Balancer:     kafka.Murmur2Balancer{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
	}

	return &CompletionProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.CompletionTopic,
	}, nil
}

func (p *CompletionProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal completion event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish completion event",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish completion event to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published completion event",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *CompletionProducer) Close() error {
	p.logger.Info("Closing completion Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
