package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ledgermind/categorization-engine/internal/domain/shared"
)

// CategorizationService runs categorization tasks through the engine and
// decides what a failure means for the consumer: a classifier outage is
// returned as an error so the message is redelivered and retried, since the
// engine guarantees nothing was mutated.
type CategorizationService struct {
	runner BatchRunner
	logger *slog.Logger
}

// NewCategorizationService creates a new task service backed by the engine.
func NewCategorizationService(logger *slog.Logger, runner BatchRunner) *CategorizationService {
	return &CategorizationService{
		runner: runner,
		logger: logger,
	}
}

// ProcessTask runs one categorization batch for the task's user.
func (s *CategorizationService) ProcessTask(ctx context.Context, task *shared.CategorizationTask) error {
	logger := s.logger
	if task.CorrelationID != "" {
		logger = s.logger.With("correlation_id", task.CorrelationID)
	}
	logger = logger.With("task_id", task.TaskID.String(), "user_id", task.UserID.String())

	summary, err := s.runner.ProcessTask(ctx, task)
	if err != nil {
		if errors.Is(err, shared.ErrExternalService) {
			logger.Warn("Classification service unavailable, task will be retried", "error", err)
		} else {
			logger.Error("Categorization task failed", "error", err)
		}
		return fmt.Errorf("categorization task %s failed: %w", task.TaskID.String(), err)
	}

	logger.Info("Categorization task completed",
		"auto_categorized", summary.AutoCategorized,
		"needs_review", summary.NeedsReview,
		"questions_created", summary.QuestionsCreated,
		"skipped", summary.Skipped,
	)
	return nil
}
