package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ledgermind/categorization-engine/internal/domain/order"
	"github.com/ledgermind/categorization-engine/internal/platform/persistence"
)

// OrderRepository implements the order.Repository interface for PostgreSQL
type OrderRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(logger *slog.Logger, db *persistence.PostgresDB) order.Repository {
	return &OrderRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction.
func (r *OrderRepository) WithTx(tx pgx.Tx) order.Repository {
	return &OrderRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// GetByID retrieves an order by its ID
func (r *OrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	query := `
		SELECT id, user_id, merchant, order_date, total_minor, currency, is_reconciled, matched_transaction_id, created_at
		FROM orders
		WHERE id = $1
	`

	var o order.Order
	err := r.querier.QueryRow(ctx, query, id).Scan(
		&o.ID,
		&o.UserID,
		&o.Merchant,
		&o.OrderDate,
		&o.TotalMinor,
		&o.Currency,
		&o.IsReconciled,
		&o.MatchedTransactionID,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrOrderNotFound{OrderID: id}
		}
		r.logger.Error("Failed to get order", "id", id.String(), "error", err)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return &o, nil
}

// GetItems retrieves the line items of an order
func (r *OrderRepository) GetItems(ctx context.Context, orderID uuid.UUID) ([]*order.Item, error) {
	query := `
		SELECT id, order_id, name, quantity, price_minor, category_hint, tax_deductible
		FROM order_items
		WHERE order_id = $1
		ORDER BY name ASC
	`

	rows, err := r.querier.Query(ctx, query, orderID)
	if err != nil {
		r.logger.Error("Failed to get order items", "order_id", orderID.String(), "error", err)
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}
	defer rows.Close()

	var items []*order.Item
	for rows.Next() {
		var item order.Item
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.Name,
			&item.Quantity,
			&item.PriceMinor,
			&item.CategoryHint,
			&item.TaxDeductible,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over order items: %w", err)
	}

	return items, nil
}

// MarkReconciled links the order to a bank transaction.
func (r *OrderRepository) MarkReconciled(ctx context.Context, id uuid.UUID, transactionID uuid.UUID) error {
	query := `
		UPDATE orders
		SET matched_transaction_id = $1, is_reconciled = TRUE
		WHERE id = $2
	`

	result, err := r.querier.Exec(ctx, query, transactionID, id)
	if err != nil {
		r.logger.Error("Failed to mark order reconciled", "id", id.String(), "error", err)
		return fmt.Errorf("failed to mark order reconciled: %w", err)
	}

	if result.RowsAffected() == 0 {
		return order.ErrOrderNotFound{OrderID: id}
	}

	return nil
}
