package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ledgermind/categorization-engine/internal/domain/question"
)

// QuestionStore manages creation of pending clarification questions. Every
// transaction holds at most one pending question at a time; the store keeps
// batch re-runs from duplicating prompts.
type QuestionStore struct {
	questions question.Repository
	logger    *slog.Logger
}

// NewQuestionStore creates a question store backed by the given repository.
func NewQuestionStore(logger *slog.Logger, questions question.Repository) *QuestionStore {
	return &QuestionStore{
		questions: questions,
		logger:    logger,
	}
}

// WithTx returns a store whose writes join the given database transaction.
func (s *QuestionStore) WithTx(tx pgx.Tx) *QuestionStore {
	return &QuestionStore{
		questions: s.questions.WithTx(tx),
		logger:    s.logger,
	}
}

// EnsureQuestion creates a pending question for the transaction unless one
// already exists. The returned bool reports whether a row was newly created;
// the orchestrator sums it into the completion event's question count.
//
// The check-then-insert runs inside the batch's database transaction and a
// partial unique index on (transaction_id) WHERE status = 'pending' backs the
// invariant against concurrent writers.
func (s *QuestionStore) EnsureQuestion(ctx context.Context, userID, transactionID uuid.UUID, text string, options []string, confidence float64, bestGuess string, qType question.Type) (bool, error) {
	existing, err := s.questions.GetPendingByTransaction(ctx, transactionID)
	if err != nil {
		return false, fmt.Errorf("failed to check for pending question: %w", err)
	}
	if existing != nil {
		s.logger.Debug("Pending question already exists, skipping creation",
			"transaction_id", transactionID.String(),
			"question_id", existing.ID.String(),
		)
		return false, nil
	}

	q := question.NewQuestion(userID, transactionID, text, options, confidence, bestGuess, qType)
	if err := s.questions.Create(ctx, q); err != nil {
		return false, err
	}

	s.logger.Info("Created clarification question",
		"question_id", q.ID.String(),
		"transaction_id", transactionID.String(),
		"question_type", string(qType),
	)
	return true, nil
}
