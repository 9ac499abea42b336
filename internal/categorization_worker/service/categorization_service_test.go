package service

import (
	"context"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBatchRunner mocks the BatchRunner interface
type MockBatchRunner struct {
	mock.Mock
}

func (m *MockBatchRunner) ProcessTask(ctx context.Context, task *shared.CategorizationTask) (*shared.BatchSummary, error) {
	args := m.Called(ctx, task)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.BatchSummary), args.Error(1)
}

func newTestTask() *shared.CategorizationTask {
	return &shared.CategorizationTask{
		TaskID:        uuid.New(),
		UserID:        uuid.New(),
		CorrelationID: "corr1",
		RequestedAt:   time.Now(),
	}
}

func TestCategorizationService_ProcessTask(t *testing.T) {
	logger := slog.Default()

	t.Run("successful run", func(t *testing.T) {
		mockRunner := &MockBatchRunner{}
		svc := NewCategorizationService(logger, mockRunner)
		task := newTestTask()

		mockRunner.On("ProcessTask", mock.Anything, task).Return(&shared.BatchSummary{
			AutoCategorized:  2,
			NeedsReview:      1,
			QuestionsCreated: 1,
		}, nil).Once()

		err := svc.ProcessTask(context.Background(), task)

		assert.NoError(t, err)
		mockRunner.AssertExpectations(t)
	})

	t.Run("classifier outage is returned for redelivery", func(t *testing.T) {
		mockRunner := &MockBatchRunner{}
		svc := NewCategorizationService(logger, mockRunner)
		task := newTestTask()

		svcErr := shared.ExternalServiceError{Operation: "classify", Err: context.DeadlineExceeded}
		mockRunner.On("ProcessTask", mock.Anything, task).Return(nil, svcErr).Once()

		err := svc.ProcessTask(context.Background(), task)

		assert.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrExternalService)
		assert.Contains(t, err.Error(), task.TaskID.String())
	})

	t.Run("engine error is wrapped with task id", func(t *testing.T) {
		mockRunner := &MockBatchRunner{}
		svc := NewCategorizationService(logger, mockRunner)
		task := newTestTask()

		mockRunner.On("ProcessTask", mock.Anything, task).Return(nil, assert.AnError).Once()

		err := svc.ProcessTask(context.Background(), task)

		assert.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
	})
}
