package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/domain/reconciliation"
)

// ReconciliationReviewer drives candidate transitions. The engine's
// reconciliation workflow satisfies this.
type ReconciliationReviewer interface {
	Confirm(ctx context.Context, callerUserID, candidateID uuid.UUID) (*reconciliation.Candidate, error)
	Reject(ctx context.Context, callerUserID, candidateID uuid.UUID) (*reconciliation.Candidate, error)
}

// ReconciliationServiceImpl implements the ReconciliationService interface
type ReconciliationServiceImpl struct {
	candidates reconciliation.Repository
	reviewer   ReconciliationReviewer
	logger     *slog.Logger
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(logger *slog.Logger, candidates reconciliation.Repository, reviewer ReconciliationReviewer) *ReconciliationServiceImpl {
	return &ReconciliationServiceImpl{
		candidates: candidates,
		reviewer:   reviewer,
		logger:     logger,
	}
}

// ListPending retrieves the user's open candidates, best matches first
func (s *ReconciliationServiceImpl) ListPending(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*reconciliation.Candidate, error) {
	candidates, err := s.candidates.ListPendingByUser(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list pending reconciliation candidates", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list pending candidates: %w", err)
	}
	return candidates, nil
}

// Confirm accepts a candidate match
func (s *ReconciliationServiceImpl) Confirm(ctx context.Context, userID, candidateID uuid.UUID) (*reconciliation.Candidate, error) {
	return s.reviewer.Confirm(ctx, userID, candidateID)
}

// Reject declines a candidate match
func (s *ReconciliationServiceImpl) Reject(ctx context.Context, userID, candidateID uuid.UUID) (*reconciliation.Candidate, error) {
	return s.reviewer.Reject(ctx, userID, candidateID)
}
