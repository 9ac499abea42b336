package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ledgermind/categorization-engine/internal/categorization_worker/service"
	"github.com/ledgermind/categorization-engine/internal/domain/shared"
	"github.com/ledgermind/categorization-engine/internal/platform/messaging/producers"
)

// TaskEventHandler handles incoming categorization task messages from Kafka
type TaskEventHandler struct {
	taskService service.TaskService
	producer    producers.DeadLetterPublisher
	logger      *slog.Logger
}

// NewTaskEventHandler creates a new handler
func NewTaskEventHandler(
	logger *slog.Logger,
	taskService service.TaskService,
	producer producers.DeadLetterPublisher,
) *TaskEventHandler {
	return &TaskEventHandler{
		taskService: taskService,
		producer:    producer,
		logger:      logger,
	}
}

// HandleMessage processes Kafka messages
func (h *TaskEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var task shared.CategorizationTask
	if err := json.Unmarshal(value, &task); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal categorization task from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		// Send to DLQ if available
		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
				// Return original error if DLQ fails
			} else {
				h.logger.Info("Successfully published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				// Message handled, commit offset
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	// Add correlation ID to logger
	logger := h.logger
	if task.CorrelationID != "" {
		logger = h.logger.With("correlation_id", task.CorrelationID)
	}

	logger.Info("Received categorization task",
		"task_id", task.TaskID.String(),
		"user_id", task.UserID.String(),
		"requested_at", task.RequestedAt,
	)

	if err := h.taskService.ProcessTask(ctx, &task); err != nil {
		logger.Error("Failed to run categorization task",
			"task_id", task.TaskID.String(),
			"user_id", task.UserID.String(),
			"error", err,
		)
		return fmt.Errorf("processing task %s failed: %w", task.TaskID.String(), err)
	}

	logger.Info("Successfully processed categorization task", "task_id", task.TaskID.String())
	return nil // Success, commit offset
}
