package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Repository defines order persistence operations used by the engine.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Order, error)

	GetItems(ctx context.Context, orderID uuid.UUID) ([]*Item, error)

	// MarkReconciled links the order to a bank transaction.
	MarkReconciled(ctx context.Context, id uuid.UUID, transactionID uuid.UUID) error

	WithTx(tx pgx.Tx) Repository
}

// ErrOrderNotFound indicates missing order
type ErrOrderNotFound struct {
	OrderID uuid.UUID
}

func (e ErrOrderNotFound) Error() string {
	return "order not found: " + e.OrderID.String()
}
