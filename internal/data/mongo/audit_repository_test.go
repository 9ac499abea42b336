package mongo

import (
	"context"
	"testing"
	"time"

	"log/slog"

	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/domain/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/mongo"
)

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, record *audit.BatchRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockAuditRepository) GetByTaskID(ctx context.Context, taskID uuid.UUID) (*audit.BatchRecord, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.BatchRecord), args.Error(1)
}

func (m *MockAuditRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*audit.BatchRecord, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*audit.BatchRecord), args.Error(1)
}

func TestNewAuditRepository(t *testing.T) {
	db := &mongo.Database{}
	logger := slog.Default()

	repo := NewAuditRepository(logger, db)

	assert.NotNil(t, repo)
	assert.IsType(t, &AuditRepository{}, repo)
}

func TestMockAuditRepository(t *testing.T) {
	mockRepo := &MockAuditRepository{}

	taskID := uuid.New()
	userID := uuid.New()
	record := &audit.BatchRecord{
		TaskID: taskID,
		UserID: userID,
		Decisions: []audit.Decision{
			{
				TransactionID: uuid.New(),
				Category:      "Groceries",
				Confidence:    0.93,
				ReviewStatus:  "auto_categorized",
			},
		},
		CreatedAt: time.Now(),
	}

	mockRepo.On("Create", mock.Anything, record).Return(nil)
	mockRepo.On("GetByTaskID", mock.Anything, taskID).Return(record, nil)
	mockRepo.On("ListByUser", mock.Anything, userID, 10, 0).Return([]*audit.BatchRecord{record}, nil)

	ctx := context.Background()

	err := mockRepo.Create(ctx, record)
	assert.NoError(t, err)

	got, err := mockRepo.GetByTaskID(ctx, taskID)
	assert.NoError(t, err)
	assert.Equal(t, record, got)

	records, err := mockRepo.ListByUser(ctx, userID, 10, 0)
	assert.NoError(t, err)
	assert.Len(t, records, 1)

	mockRepo.AssertExpectations(t)
}
