package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ledgermind/categorization-engine/internal/classifier"
	"github.com/ledgermind/categorization-engine/internal/domain/audit"
	"github.com/ledgermind/categorization-engine/internal/domain/order"
	"github.com/ledgermind/categorization-engine/internal/domain/outbox"
	"github.com/ledgermind/categorization-engine/internal/domain/question"
	"github.com/ledgermind/categorization-engine/internal/domain/reconciliation"
	"github.com/ledgermind/categorization-engine/internal/domain/shared"
	"github.com/ledgermind/categorization-engine/internal/domain/transaction"
	"github.com/stretchr/testify/mock"
)

// fakeTxRunner runs the callback without a real database transaction, or
// fails straight away when beginErr is set.
type fakeTxRunner struct {
	beginErr error
}

func (f *fakeTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	return fn(nil)
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListPendingClassification(ctx context.Context, userID uuid.UUID, limit int) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByReviewStatus(ctx context.Context, userID uuid.UUID, status transaction.ReviewStatus, limit, offset int) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, userID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ApplyClassification(ctx context.Context, id uuid.UUID, update transaction.ClassificationUpdate) (int64, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) ApplyConfirmation(ctx context.Context, id uuid.UUID, update transaction.ConfirmationUpdate) error {
	args := m.Called(ctx, id, update)
	return args.Error(0)
}

func (m *MockTransactionRepository) PropagateToMerchant(ctx context.Context, userID uuid.UUID, merchantKey string, excludeID uuid.UUID, update transaction.ConfirmationUpdate) (int64, error) {
	args := m.Called(ctx, userID, merchantKey, excludeID, update)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) MarkReconciled(ctx context.Context, id uuid.UUID, orderID uuid.UUID) error {
	args := m.Called(ctx, id, orderID)
	return args.Error(0)
}

func (m *MockTransactionRepository) ApplyTaxHints(ctx context.Context, id uuid.UUID, update transaction.TaxHintUpdate) (int64, error) {
	args := m.Called(ctx, id, update)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	m.Called(tx)
	return m
}

type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*question.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*question.Question), args.Error(1)
}

func (m *MockQuestionRepository) GetPendingByTransaction(ctx context.Context, transactionID uuid.UUID) (*question.Question, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*question.Question), args.Error(1)
}

func (m *MockQuestionRepository) ListPendingByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*question.Question, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*question.Question), args.Error(1)
}

func (m *MockQuestionRepository) Create(ctx context.Context, q *question.Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuestionRepository) Resolve(ctx context.Context, id uuid.UUID, status question.Status, userAnswer *string, answeredAt time.Time) (int64, error) {
	args := m.Called(ctx, id, status, userAnswer, answeredAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) AnswerPendingForMerchant(ctx context.Context, userID uuid.UUID, merchantKey string, excludeTransactionID uuid.UUID, answer string, answeredAt time.Time) (int64, error) {
	args := m.Called(ctx, userID, merchantKey, excludeTransactionID, answer, answeredAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuestionRepository) WithTx(tx pgx.Tx) question.Repository {
	m.Called(tx)
	return m
}

type MockCandidateRepository struct {
	mock.Mock
}

func (m *MockCandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*reconciliation.Candidate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconciliation.Candidate), args.Error(1)
}

func (m *MockCandidateRepository) ListPendingByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*reconciliation.Candidate, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reconciliation.Candidate), args.Error(1)
}

func (m *MockCandidateRepository) Transition(ctx context.Context, id uuid.UUID, to reconciliation.Status, reviewedAt time.Time) (int64, error) {
	args := m.Called(ctx, id, to, reviewedAt)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCandidateRepository) WithTx(tx pgx.Tx) reconciliation.Repository {
	m.Called(tx)
	return m
}

type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetItems(ctx context.Context, orderID uuid.UUID) ([]*order.Item, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Item), args.Error(1)
}

func (m *MockOrderRepository) MarkReconciled(ctx context.Context, id uuid.UUID, transactionID uuid.UUID) error {
	args := m.Called(ctx, id, transactionID)
	return args.Error(0)
}

func (m *MockOrderRepository) WithTx(tx pgx.Tx) order.Repository {
	m.Called(tx)
	return m
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepository) IncrementAttempts(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetByTaskID(ctx context.Context, taskID uuid.UUID) (*outbox.Message, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) WithTx(tx pgx.Tx) outbox.Repository {
	m.Called(tx)
	return m
}

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

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, userID uuid.UUID, transactions []*transaction.Transaction) ([]classifier.Result, error) {
	args := m.Called(ctx, userID, transactions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]classifier.Result), args.Error(1)
}

func (m *MockClassifier) InterpretAnswer(ctx context.Context, q *question.Question, tx *transaction.Transaction, rawAnswer string) (*classifier.Interpretation, error) {
	args := m.Called(ctx, q, tx, rawAnswer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*classifier.Interpretation), args.Error(1)
}
