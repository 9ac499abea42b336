package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ledgermind/categorization-engine/internal/domain/question"
	"github.com/ledgermind/categorization-engine/internal/platform/persistence"
)

const questionColumns = `id, user_id, transaction_id, question_text, options, ai_confidence,
		ai_best_guess, question_type, status, user_answer, created_at, answered_at`

// QuestionRepository implements the question.Repository interface for PostgreSQL
type QuestionRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewQuestionRepository creates a new PostgreSQL question repository.
func NewQuestionRepository(logger *slog.Logger, db *persistence.PostgresDB) question.Repository {
	return &QuestionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction.
func (r *QuestionRepository) WithTx(tx pgx.Tx) question.Repository {
	return &QuestionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func scanQuestion(row pgx.Row) (*question.Question, error) {
	var q question.Question
	err := row.Scan(
		&q.ID,
		&q.UserID,
		&q.TransactionID,
		&q.Text,
		&q.Options,
		&q.AIConfidence,
		&q.AIBestGuess,
		&q.Type,
		&q.Status,
		&q.UserAnswer,
		&q.CreatedAt,
		&q.AnsweredAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// GetByID retrieves a question by its ID
func (r *QuestionRepository) GetByID(ctx context.Context, id uuid.UUID) (*question.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM ai_questions
		WHERE id = $1
	`

	q, err := scanQuestion(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, question.ErrQuestionNotFound{QuestionID: id}
		}
		r.logger.Error("Failed to get question", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get question: %w", err)
	}

	return q, nil
}

// GetPendingByTransaction returns the open question for a transaction, or nil
// when none exists. A partial unique index keeps it to at most one.
func (r *QuestionRepository) GetPendingByTransaction(ctx context.Context, transactionID uuid.UUID) (*question.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM ai_questions
		WHERE transaction_id = $1 AND status = $2
	`

	q, err := scanQuestion(r.querier.QueryRow(ctx, query, transactionID, question.StatusPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get pending question for transaction",
			"transaction_id", transactionID.String(),
			"error", err,
		)
		return nil, fmt.Errorf("failed to get pending question: %w", err)
	}

	return q, nil
}

// ListPendingByUser retrieves the user's open review queue, oldest first.
func (r *QuestionRepository) ListPendingByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*question.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM ai_questions
		WHERE user_id = $1 AND status = $2
		ORDER BY created_at ASC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.querier.Query(ctx, query, userID, question.StatusPending, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list pending questions", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list pending questions: %w", err)
	}
	defer rows.Close()

	var questions []*question.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over questions: %w", err)
	}

	return questions, nil
}

// Create inserts a new question
func (r *QuestionRepository) Create(ctx context.Context, q *question.Question) error {
	query := `
		INSERT INTO ai_questions (id, user_id, transaction_id, question_text, options, ai_confidence,
			ai_best_guess, question_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.querier.Exec(ctx, query,
		q.ID,
		q.UserID,
		q.TransactionID,
		q.Text,
		q.Options,
		q.AIConfidence,
		q.AIBestGuess,
		q.Type,
		q.Status,
		q.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create question",
			"id", q.ID.String(),
			"transaction_id", q.TransactionID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create question: %w", err)
	}

	return nil
}

// Resolve moves a question out of the pending state. The guard on the current
// status makes double answers a no-op at the SQL level; callers inspect the
// returned count to report the conflict.
func (r *QuestionRepository) Resolve(ctx context.Context, id uuid.UUID, status question.Status, userAnswer *string, answeredAt time.Time) (int64, error) {
	query := `
		UPDATE ai_questions
		SET status = $1, user_answer = $2, answered_at = $3
		WHERE id = $4 AND status = $5
	`

	result, err := r.querier.Exec(ctx, query, status, userAnswer, answeredAt, id, question.StatusPending)
	if err != nil {
		r.logger.Error("Failed to resolve question", "id", id.String(), "error", err)
		return 0, fmt.Errorf("failed to resolve question: %w", err)
	}

	return result.RowsAffected(), nil
}

// AnswerPendingForMerchant closes every other open question of the user whose
// owning transaction matches merchantKey, recording the shared answer.
func (r *QuestionRepository) AnswerPendingForMerchant(ctx context.Context, userID uuid.UUID, merchantKey string, excludeTransactionID uuid.UUID, answer string, answeredAt time.Time) (int64, error) {
	query := `
		UPDATE ai_questions q
		SET status = $1, user_answer = $2, answered_at = $3
		FROM transactions t
		WHERE q.transaction_id = t.id
		  AND q.user_id = $4
		  AND (t.merchant_name = $5 OR t.merchant_normalized = $5)
		  AND q.transaction_id <> $6
		  AND q.status = $7
	`

	result, err := r.querier.Exec(ctx, query,
		question.StatusAnswered,
		answer,
		answeredAt,
		userID,
		merchantKey,
		excludeTransactionID,
		question.StatusPending,
	)
	if err != nil {
		r.logger.Error("Failed to answer sibling questions for merchant",
			"user_id", userID.String(),
			"merchant", merchantKey,
			"error", err,
		)
		return 0, fmt.Errorf("failed to answer sibling questions: %w", err)
	}

	return result.RowsAffected(), nil
}
