package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ledgermind/categorization-engine/internal/domain/reconciliation"
	"github.com/ledgermind/categorization-engine/internal/platform/persistence"
)

const candidateColumns = `id, user_id, transaction_id, order_id, confidence, status, created_at, reviewed_at`

// CandidateRepository implements the reconciliation.Repository interface for PostgreSQL
type CandidateRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewCandidateRepository creates a new PostgreSQL reconciliation candidate repository.
func NewCandidateRepository(logger *slog.Logger, db *persistence.PostgresDB) reconciliation.Repository {
	return &CandidateRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction.
func (r *CandidateRepository) WithTx(tx pgx.Tx) reconciliation.Repository {
	return &CandidateRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func scanCandidate(row pgx.Row) (*reconciliation.Candidate, error) {
	var c reconciliation.Candidate
	err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.TransactionID,
		&c.OrderID,
		&c.Confidence,
		&c.Status,
		&c.CreatedAt,
		&c.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetByID retrieves a reconciliation candidate by its ID
func (r *CandidateRepository) GetByID(ctx context.Context, id uuid.UUID) (*reconciliation.Candidate, error) {
	query := `
		SELECT ` + candidateColumns + `
		FROM reconciliation_candidates
		WHERE id = $1
	`

	c, err := scanCandidate(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, reconciliation.ErrCandidateNotFound{CandidateID: id}
		}
		r.logger.Error("Failed to get reconciliation candidate", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get reconciliation candidate: %w", err)
	}

	return c, nil
}

// ListPendingByUser retrieves the user's open candidates, best match first.
func (r *CandidateRepository) ListPendingByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*reconciliation.Candidate, error) {
	query := `
		SELECT ` + candidateColumns + `
		FROM reconciliation_candidates
		WHERE user_id = $1 AND status = $2
		ORDER BY confidence DESC, created_at ASC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.querier.Query(ctx, query, userID, reconciliation.StatusPending, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list pending candidates", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list pending candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*reconciliation.Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over candidates: %w", err)
	}

	return candidates, nil
}

// Transition moves a candidate out of pending. Guarded on the current status
// so concurrent reviews of the same candidate cannot both win.
func (r *CandidateRepository) Transition(ctx context.Context, id uuid.UUID, to reconciliation.Status, reviewedAt time.Time) (int64, error) {
	query := `
		UPDATE reconciliation_candidates
		SET status = $1, reviewed_at = $2
		WHERE id = $3 AND status = $4
	`

	result, err := r.querier.Exec(ctx, query, to, reviewedAt, id, reconciliation.StatusPending)
	if err != nil {
		r.logger.Error("Failed to transition candidate", "id", id.String(), "to", string(to), "error", err)
		return 0, fmt.Errorf("failed to transition candidate: %w", err)
	}

	return result.RowsAffected(), nil
}
