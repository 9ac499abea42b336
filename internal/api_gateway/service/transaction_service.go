package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/domain/transaction"
)

// TransactionServiceImpl implements the TransactionService interface
type TransactionServiceImpl struct {
	transactions transaction.Repository
	logger       *slog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(logger *slog.Logger, transactions transaction.Repository) *TransactionServiceImpl {
	return &TransactionServiceImpl{
		transactions: transactions,
		logger:       logger,
	}
}

// GetByID retrieves a transaction owned by the user. Rows owned by other
// users read as not found so ids cannot be probed across accounts.
func (s *TransactionServiceImpl) GetByID(ctx context.Context, userID, id uuid.UUID) (*transaction.Transaction, error) {
	tx, err := s.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tx.UserID != userID {
		return nil, transaction.ErrTransactionNotFound{TransactionID: id}
	}
	return tx, nil
}

// ListByReviewStatus retrieves a page of the user's transactions in the
// given review state, newest first
func (s *TransactionServiceImpl) ListByReviewStatus(ctx context.Context, userID uuid.UUID, status transaction.ReviewStatus, page, perPage int) ([]*transaction.Transaction, error) {
	offset := (page - 1) * perPage
	transactions, err := s.transactions.ListByReviewStatus(ctx, userID, status, perPage, offset)
	if err != nil {
		s.logger.Error("Failed to list transactions by review status",
			"user_id", userID, "review_status", status, "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return transactions, nil
}
