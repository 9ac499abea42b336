package question

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines question persistence operations
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Question, error)

	// GetPendingByTransaction returns the pending question for a transaction,
	// or nil when none exists. Used for idempotent question creation.
	GetPendingByTransaction(ctx context.Context, transactionID uuid.UUID) (*Question, error)

	ListPendingByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Question, error)

	Create(ctx context.Context, q *Question) error

	// Resolve moves a pending question to a terminal status. The affected row
	// count is returned; zero means the question was no longer pending.
	Resolve(ctx context.Context, id uuid.UUID, status Status, userAnswer *string, answeredAt time.Time) (int64, error)

	// AnswerPendingForMerchant marks every pending question of the user whose
	// owning transaction matches merchantKey as answered with the given
	// answer, excluding the question owned by excludeTransactionID. Returns
	// the affected row count.
	AnswerPendingForMerchant(ctx context.Context, userID uuid.UUID, merchantKey string, excludeTransactionID uuid.UUID, answer string, answeredAt time.Time) (int64, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrQuestionNotFound indicates missing question
type ErrQuestionNotFound struct {
	QuestionID uuid.UUID
}

func (e ErrQuestionNotFound) Error() string {
	return "question not found: " + e.QuestionID.String()
}
