package reconciliation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines reconciliation candidate persistence operations.
// Candidates are created by an external matching batch; the engine only
// reads them and drives the pending -> confirmed/rejected transition.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Candidate, error)

	ListPendingByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Candidate, error)

	// Transition moves a candidate out of pending. The UPDATE is guarded on
	// status = pending; zero affected rows means the candidate already
	// reached a terminal state.
	Transition(ctx context.Context, id uuid.UUID, to Status, reviewedAt time.Time) (int64, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrCandidateNotFound indicates missing reconciliation candidate
type ErrCandidateNotFound struct {
	CandidateID uuid.UUID
}

func (e ErrCandidateNotFound) Error() string {
	return "reconciliation candidate not found: " + e.CandidateID.String()
}
