package service

import (
	"context"

	"github.com/ledgermind/categorization-engine/internal/domain/shared"
)

// TaskService defines the interface for running categorization tasks.
type TaskService interface {
	ProcessTask(ctx context.Context, task *shared.CategorizationTask) error
}

// BatchRunner runs one categorization batch and reports its outcome. The
// engine orchestrator satisfies this.
type BatchRunner interface {
	ProcessTask(ctx context.Context, task *shared.CategorizationTask) (*shared.BatchSummary, error)
}
