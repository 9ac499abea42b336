// Package postgres provides PostgreSQL implementations of the domain repositories.
// It handles all database operations while maintaining transaction safety and
// proper error handling for the categorization engine.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ledgermind/categorization-engine/internal/domain/transaction"
	"github.com/ledgermind/categorization-engine/internal/platform/persistence"
)

const transactionColumns = `id, user_id, date, amount_minor, currency, merchant_name, merchant_normalized,
		description, ai_category, ai_confidence, user_category, expense_type, tax_deductible,
		tax_category, is_subscription, review_status, is_reconciled, matched_order_id, created_at, updated_at`

// TransactionRepository implements the transaction.Repository interface for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository.
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls.
func (r *TransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

func scanTransaction(row pgx.Row) (*transaction.Transaction, error) {
	var t transaction.Transaction
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Date,
		&t.AmountMinor,
		&t.Currency,
		&t.MerchantName,
		&t.MerchantNormalized,
		&t.Description,
		&t.AICategory,
		&t.AIConfidence,
		&t.UserCategory,
		&t.ExpenseType,
		&t.TaxDeductible,
		&t.TaxCategory,
		&t.IsSubscription,
		&t.ReviewStatus,
		&t.IsReconciled,
		&t.MatchedOrderID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE id = $1
	`

	t, err := scanTransaction(r.querier.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrTransactionNotFound{TransactionID: id}
		}
		r.logger.Error("Failed to get transaction", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return t, nil
}

// ListPendingClassification returns up to limit rows awaiting classification
// for one user, oldest first.
func (r *TransactionRepository) ListPendingClassification(ctx context.Context, userID uuid.UUID, limit int) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND review_status = $2
		ORDER BY date ASC, created_at ASC
		LIMIT $3
	`

	rows, err := r.querier.Query(ctx, query, userID, transaction.ReviewStatusPendingAI, limit)
	if err != nil {
		r.logger.Error("Failed to list pending transactions", "user_id", userID.String(), "error", err)
		return nil, fmt.Errorf("failed to list pending transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

// ListByReviewStatus retrieves paginated transactions for a user in the given review state
func (r *TransactionRepository) ListByReviewStatus(ctx context.Context, userID uuid.UUID, status transaction.ReviewStatus, limit, offset int) ([]*transaction.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE user_id = $1 AND review_status = $2
		ORDER BY date DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.querier.Query(ctx, query, userID, status, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list transactions by review status",
			"user_id", userID.String(),
			"status", string(status),
			"error", err,
		)
		return nil, fmt.Errorf("failed to list transactions by review status: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*transaction.Transaction, error) {
	var transactions []*transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}
	return transactions, nil
}

// ApplyClassification writes engine-assigned fields to a transaction. The
// UPDATE is guarded so a user-confirmed row is never overwritten by any
// automated process; the returned count is 0 when the guard fires.
func (r *TransactionRepository) ApplyClassification(ctx context.Context, id uuid.UUID, update transaction.ClassificationUpdate) (int64, error) {
	query := `
		UPDATE transactions
		SET ai_category = $1, ai_confidence = $2, expense_type = $3, tax_deductible = $4,
		    tax_category = $5, is_subscription = $6, merchant_normalized = $7,
		    review_status = $8, updated_at = NOW()
		WHERE id = $9 AND review_status <> $10
	`

	result, err := r.querier.Exec(ctx, query,
		update.Category,
		update.Confidence,
		update.ExpenseType,
		update.TaxDeductible,
		update.TaxCategory,
		update.IsSubscription,
		update.Merchant,
		update.ReviewStatus,
		id,
		transaction.ReviewStatusUserConfirmed,
	)
	if err != nil {
		r.logger.Error("Failed to apply classification", "id", id.String(), "error", err)
		return 0, fmt.Errorf("failed to apply classification: %w", err)
	}

	return result.RowsAffected(), nil
}

// ApplyConfirmation writes user-confirmed fields to a single transaction.
// NULL update fields keep the column's current value.
func (r *TransactionRepository) ApplyConfirmation(ctx context.Context, id uuid.UUID, update transaction.ConfirmationUpdate) error {
	query := `
		UPDATE transactions
		SET user_category = COALESCE($1, user_category),
		    expense_type = COALESCE($2, expense_type),
		    tax_deductible = COALESCE($3, tax_deductible),
		    review_status = $4,
		    updated_at = NOW()
		WHERE id = $5
	`

	result, err := r.querier.Exec(ctx, query,
		update.UserCategory,
		update.ExpenseType,
		update.TaxDeductible,
		update.ReviewStatus,
		id,
	)
	if err != nil {
		r.logger.Error("Failed to apply confirmation", "id", id.String(), "error", err)
		return fmt.Errorf("failed to apply confirmation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return transaction.ErrTransactionNotFound{TransactionID: id}
	}

	return nil
}

// PropagateToMerchant bulk-applies a confirmation to every other transaction
// of the user whose raw or normalized merchant name equals merchantKey,
// never touching rows that are already user-confirmed. Returns the affected
// row count so propagation is auditable.
func (r *TransactionRepository) PropagateToMerchant(ctx context.Context, userID uuid.UUID, merchantKey string, excludeID uuid.UUID, update transaction.ConfirmationUpdate) (int64, error) {
	query := `
		UPDATE transactions
		SET user_category = COALESCE($1, user_category),
		    expense_type = COALESCE($2, expense_type),
		    tax_deductible = COALESCE($3, tax_deductible),
		    review_status = $4,
		    updated_at = NOW()
		WHERE user_id = $5
		  AND (merchant_name = $6 OR merchant_normalized = $6)
		  AND id <> $7
		  AND review_status <> $8
	`

	result, err := r.querier.Exec(ctx, query,
		update.UserCategory,
		update.ExpenseType,
		update.TaxDeductible,
		update.ReviewStatus,
		userID,
		merchantKey,
		excludeID,
		transaction.ReviewStatusUserConfirmed,
	)
	if err != nil {
		r.logger.Error("Failed to propagate confirmation to merchant siblings",
			"user_id", userID.String(),
			"merchant", merchantKey,
			"error", err,
		)
		return 0, fmt.Errorf("failed to propagate confirmation: %w", err)
	}

	return result.RowsAffected(), nil
}

// ApplyTaxHints writes order-item-derived tax fields when a reconciliation
// candidate is confirmed. Guarded like ApplyClassification: a user-confirmed
// row keeps its own values and the returned count is 0.
func (r *TransactionRepository) ApplyTaxHints(ctx context.Context, id uuid.UUID, update transaction.TaxHintUpdate) (int64, error) {
	query := `
		UPDATE transactions
		SET tax_category = COALESCE($1, tax_category),
		    tax_deductible = $2,
		    updated_at = NOW()
		WHERE id = $3 AND review_status <> $4
	`

	result, err := r.querier.Exec(ctx, query,
		update.TaxCategory,
		update.TaxDeductible,
		id,
		transaction.ReviewStatusUserConfirmed,
	)
	if err != nil {
		r.logger.Error("Failed to apply tax hints", "id", id.String(), "error", err)
		return 0, fmt.Errorf("failed to apply tax hints: %w", err)
	}

	return result.RowsAffected(), nil
}

// MarkReconciled links the transaction to a confirmed purchase order.
func (r *TransactionRepository) MarkReconciled(ctx context.Context, id uuid.UUID, orderID uuid.UUID) error {
	query := `
		UPDATE transactions
		SET matched_order_id = $1, is_reconciled = TRUE, updated_at = $2
		WHERE id = $3
	`

	result, err := r.querier.Exec(ctx, query, orderID, time.Now(), id)
	if err != nil {
		r.logger.Error("Failed to mark transaction reconciled", "id", id.String(), "error", err)
		return fmt.Errorf("failed to mark transaction reconciled: %w", err)
	}

	if result.RowsAffected() == 0 {
		return transaction.ErrTransactionNotFound{TransactionID: id}
	}

	return nil
}
