package service

import (
	"log/slog"

	"github.com/ledgermind/categorization-engine/internal/classifier"
	"github.com/ledgermind/categorization-engine/internal/config"
	"github.com/ledgermind/categorization-engine/internal/domain/audit"
	"github.com/ledgermind/categorization-engine/internal/domain/outbox"
	"github.com/ledgermind/categorization-engine/internal/domain/question"
	"github.com/ledgermind/categorization-engine/internal/domain/transaction"
	"github.com/ledgermind/categorization-engine/internal/engine"
	"github.com/ledgermind/categorization-engine/internal/platform/persistence"
)

// CreateTaskService builds the categorization task service with all its
// dependencies, wrapped in a worker pool.
func CreateTaskService(
	pgDB *persistence.PostgresDB,
	transactionRepo transaction.Repository,
	questionRepo question.Repository,
	outboxRepo outbox.Repository,
	auditRepo audit.Repository,
	clf classifier.Classifier,
	logger *slog.Logger,
	cfg *config.Config,
) TaskService {
	orchestrator := engine.NewOrchestrator(
		logger,
		pgDB,
		transactionRepo,
		engine.NewQuestionStore(logger, questionRepo),
		clf,
		outboxRepo,
		auditRepo,
		cfg.Engine.BatchSize,
	)

	baseService := NewCategorizationService(logger, orchestrator)

	workerPoolService, err := NewWorkerPoolTaskService(
		baseService,
		WorkerPoolConfig{
			Size: cfg.WorkerPool.Size,
		},
		logger.With("component", "worker_pool"),
	)

	if err != nil {
		logger.Error("Failed to create worker pool service, falling back to base service", "error", err)
		return baseService
	}

	logger.Info("Created worker pool task service", "pool_size", cfg.WorkerPool.Size)
	return workerPoolService
}
