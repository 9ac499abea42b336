package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/classifier"
	"github.com/ledgermind/categorization-engine/internal/domain/audit"
	"github.com/ledgermind/categorization-engine/internal/domain/question"
	"github.com/ledgermind/categorization-engine/internal/domain/reconciliation"
	"github.com/ledgermind/categorization-engine/internal/domain/shared"
	"github.com/ledgermind/categorization-engine/internal/domain/transaction"
)

// QuestionService defines the interface for clarification question operations
type QuestionService interface {
	// ListPending retrieves the user's open questions, oldest first
	ListPending(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*question.Question, error)

	// Answer resolves a pending question with the given answer and returns
	// the owning transaction as it reads after the confirmation
	Answer(ctx context.Context, userID, questionID uuid.UUID, rawAnswer string) (*transaction.Transaction, error)

	// Interpret asks the classification service to read a free-text answer
	// without committing anything
	Interpret(ctx context.Context, userID, questionID uuid.UUID, rawAnswer string) (*classifier.Interpretation, error)

	// ApplyInterpretation commits a previously returned interpretation
	ApplyInterpretation(ctx context.Context, userID, questionID uuid.UUID, rawAnswer string, interp *classifier.Interpretation) (*transaction.Transaction, error)
}

// ReconciliationService defines the interface for order matching review
type ReconciliationService interface {
	ListPending(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*reconciliation.Candidate, error)
	Confirm(ctx context.Context, userID, candidateID uuid.UUID) (*reconciliation.Candidate, error)
	Reject(ctx context.Context, userID, candidateID uuid.UUID) (*reconciliation.Candidate, error)
}

// TransactionService defines the interface for transaction read operations
type TransactionService interface {
	// GetByID retrieves a transaction owned by the user.
	// Returns ErrTransactionNotFound when it does not exist; rows owned by
	// other users are reported as not found as well.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*transaction.Transaction, error)

	ListByReviewStatus(ctx context.Context, userID uuid.UUID, status transaction.ReviewStatus, page, perPage int) ([]*transaction.Transaction, error)
}

// TaskService defines the interface for enqueueing categorization runs
type TaskService interface {
	// Enqueue publishes a categorization task for the user and returns it.
	// Processing is asynchronous; the task id can be used to look up the
	// batch audit record later.
	Enqueue(ctx context.Context, userID uuid.UUID, correlationID string) (*shared.CategorizationTask, error)
}

// AuditService defines the interface for reading batch audit records
type AuditService interface {
	GetByTaskID(ctx context.Context, taskID uuid.UUID) (*audit.BatchRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*audit.BatchRecord, error)
}
