package transaction

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ClassificationUpdate carries the engine-assigned fields written to a
// transaction by the categorization orchestrator.
type ClassificationUpdate struct {
	Category       string
	Confidence     float64
	ExpenseType    ExpenseType
	TaxDeductible  bool
	TaxCategory    *string
	IsSubscription bool
	Merchant       string // normalized merchant name
	ReviewStatus   ReviewStatus
}

// ConfirmationUpdate carries the user-confirmed fields applied when a
// question is answered, both to the owning row and to propagated siblings.
type ConfirmationUpdate struct {
	UserCategory  *string
	ExpenseType   *ExpenseType
	TaxDeductible *bool
	ReviewStatus  ReviewStatus
}

// TaxHintUpdate carries the order-item-derived tax fields written to a
// transaction when a reconciliation candidate is confirmed.
type TaxHintUpdate struct {
	TaxCategory   *string
	TaxDeductible bool
}

// Repository defines transaction persistence operations
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Transaction, error)

	// ListPendingClassification returns up to limit rows for one user with
	// review_status = pending_ai, oldest first.
	ListPendingClassification(ctx context.Context, userID uuid.UUID, limit int) ([]*Transaction, error)

	ListByReviewStatus(ctx context.Context, userID uuid.UUID, status ReviewStatus, limit, offset int) ([]*Transaction, error)

	// ApplyClassification writes engine-assigned fields. Rows already
	// user_confirmed are never touched; affected row count is returned so
	// callers can detect the guard firing.
	ApplyClassification(ctx context.Context, id uuid.UUID, update ClassificationUpdate) (int64, error)

	// ApplyConfirmation writes user-confirmed fields to a single row.
	ApplyConfirmation(ctx context.Context, id uuid.UUID, update ConfirmationUpdate) error

	// PropagateToMerchant bulk-applies a confirmation to every other
	// not-yet-confirmed transaction of the same user whose raw or normalized
	// merchant name equals merchantKey. Returns the affected row count.
	PropagateToMerchant(ctx context.Context, userID uuid.UUID, merchantKey string, excludeID uuid.UUID, update ConfirmationUpdate) (int64, error)

	// MarkReconciled links the transaction to a purchase order.
	MarkReconciled(ctx context.Context, id uuid.UUID, orderID uuid.UUID) error

	// ApplyTaxHints writes item-derived tax fields on reconciliation
	// confirm. Rows already user_confirmed keep their own values; the
	// affected row count is returned so callers can detect the guard firing.
	ApplyTaxHints(ctx context.Context, id uuid.UUID, update TaxHintUpdate) (int64, error)

	WithTx(tx pgx.Tx) Repository
}

// ErrTransactionNotFound indicates missing transaction
type ErrTransactionNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrTransactionNotFound) Error() string {
	return "transaction not found: " + e.TransactionID.String()
}
