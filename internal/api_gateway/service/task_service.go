package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/domain/shared"
	"github.com/ledgermind/categorization-engine/internal/platform/messaging/producers"
)

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	producer producers.MessagePublisher
	logger   *slog.Logger
}

// NewTaskService creates a new categorization task service
func NewTaskService(logger *slog.Logger, producer producers.MessagePublisher) *TaskServiceImpl {
	return &TaskServiceImpl{
		producer: producer,
		logger:   logger,
	}
}

// Enqueue publishes a categorization task for the user. Tasks are keyed by
// user id so one user's tasks are consumed in order and never concurrently.
func (s *TaskServiceImpl) Enqueue(ctx context.Context, userID uuid.UUID, correlationID string) (*shared.CategorizationTask, error) {
	task := &shared.CategorizationTask{
		TaskID:        uuid.New(),
		UserID:        userID,
		CorrelationID: correlationID,
		RequestedAt:   time.Now(),
	}

	if err := s.producer.Publish(ctx, userID.String(), task); err != nil {
		s.logger.Error("Failed to publish categorization task",
			"task_id", task.TaskID, "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to enqueue categorization task: %w", err)
	}

	s.logger.Info("Categorization task enqueued", "task_id", task.TaskID, "user_id", userID)
	return task, nil
}
