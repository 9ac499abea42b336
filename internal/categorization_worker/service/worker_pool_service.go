package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ledgermind/categorization-engine/internal/domain/shared"
	"github.com/panjf2000/ants/v2"
)

// WorkerPoolTaskService implements the TaskService interface
type WorkerPoolTaskService struct {
	baseService TaskService
	pool        *ants.Pool
	logger      *slog.Logger
	// Use a mutex to protect access to the results map
	mu      sync.Mutex
	results map[string]chan error
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolTaskService(
	baseService TaskService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolTaskService, error) {
	// Create a new worker pool with the specified size
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolTaskService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		results:     make(map[string]chan error),
	}, nil
}

// ProcessTask submits a categorization task to the worker pool for processing.
func (s *WorkerPoolTaskService) ProcessTask(ctx context.Context, task *shared.CategorizationTask) error {
	logger := s.logger
	if task.CorrelationID != "" {
		logger = s.logger.With("correlation_id", task.CorrelationID)
	}

	logger.Info("Submitting categorization task to worker pool",
		"task_id", task.TaskID.String(),
		"user_id", task.UserID.String(),
	)

	// Create a channel to receive the result of the task run
	resultChan := make(chan error, 1)

	// Store the result channel in the result map
	taskID := task.TaskID.String()
	s.mu.Lock()
	s.results[taskID] = resultChan
	s.mu.Unlock()

	// Create a copy of the task to avoid data races
	taskCopy := *task

	// Submit the task to the worker pool
	err := s.pool.Submit(func() {
		// Run the task using the base service
		err := s.baseService.ProcessTask(ctx, &taskCopy)

		// Send the result to the channel
		resultChan <- err

		// Remove the result channel from the map
		s.mu.Lock()
		delete(s.results, taskID)
		close(resultChan)
		s.mu.Unlock()
	})

	if err != nil {
		// If we couldn't submit the task to the pool, remove the result channel
		s.mu.Lock()
		delete(s.results, taskID)
		close(resultChan)
		s.mu.Unlock()

		logger.Error("Failed to submit categorization task to worker pool",
			"task_id", task.TaskID.String(),
			"error", err,
		)
		return err
	}

	// Wait for the result from the worker
	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolTaskService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolTaskService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolTaskService) Capacity() int {
	return s.pool.Cap()
}
