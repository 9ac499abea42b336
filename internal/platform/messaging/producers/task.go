package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ledgermind/categorization-engine/internal/config"
	"github.com/segmentio/kafka-go"
)

// TaskProducer publishes categorization task messages from the API gateway.
// Messages are keyed by user id, which pins every task for the same user to
// one partition so tasks for one user never run concurrently.
type TaskProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// NewTaskProducer creates the task producer and ensures the topic exists
func NewTaskProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*TaskProducer, error) {
	if cfg.TaskTopic == "" {
		return nil, fmt.Errorf("kafka task topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for task producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.TaskTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure task topic %s exists: %w", cfg.TaskTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.TaskTopic,
		Balancer:     kafka.Murmur2Balancer{}, // Key-hash balancing keeps per-user ordering
		RequiredAcks: kafka.RequireOne,
		Async:        true, // Using async for high throughput
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write messages asynchronously", "topic", cfg.TaskTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote messages asynchronously", "topic", cfg.TaskTopic, "count", len(messages))
			}
		},
	}

	return &TaskProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.TaskTopic,
	}, nil
}

func (p *TaskProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message value for task producer: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish task message",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s: %w", p.topic, err)
	}

	p.logger.Debug("Published task message",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *TaskProducer) Close() error {
	p.logger.Info("Closing task Kafka producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
