package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ledgermind/categorization-engine/internal/domain/order"
	"github.com/ledgermind/categorization-engine/internal/domain/reconciliation"
	"github.com/ledgermind/categorization-engine/internal/domain/shared"
	"github.com/ledgermind/categorization-engine/internal/domain/transaction"
)

// ReconciliationWorkflow drives the confirm/reject transition of pre-scored
// transaction-order match candidates. How the match score was computed is an
// upstream concern; the workflow only governs the transition.
type ReconciliationWorkflow struct {
	db           TxRunner
	candidates   reconciliation.Repository
	transactions transaction.Repository
	orders       order.Repository
	logger       *slog.Logger
}

// NewReconciliationWorkflow creates a reconciliation workflow.
func NewReconciliationWorkflow(
	logger *slog.Logger,
	db TxRunner,
	candidates reconciliation.Repository,
	transactions transaction.Repository,
	orders order.Repository,
) *ReconciliationWorkflow {
	return &ReconciliationWorkflow{
		db:           db,
		candidates:   candidates,
		transactions: transactions,
		orders:       orders,
		logger:       logger,
	}
}

// Confirm links the candidate's transaction and order and seals the
// candidate, atomically: the transaction write, the order write and the
// candidate transition all land together or not at all.
func (w *ReconciliationWorkflow) Confirm(ctx context.Context, callerUserID, candidateID uuid.UUID) (*reconciliation.Candidate, error) {
	c, err := w.loadForReview(ctx, callerUserID, candidateID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = w.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		candRepo := w.candidates.WithTx(tx)
		txRepo := w.transactions.WithTx(tx)
		orderRepo := w.orders.WithTx(tx)

		affected, err := candRepo.Transition(ctx, c.ID, reconciliation.StatusConfirmed, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			return shared.StateConflictError{Resource: "reconciliation candidate", ID: c.ID, Status: string(c.Status)}
		}

		if err := txRepo.MarkReconciled(ctx, c.TransactionID, c.OrderID); err != nil {
			return err
		}

		if err := orderRepo.MarkReconciled(ctx, c.OrderID, c.TransactionID); err != nil {
			return err
		}

		return w.applyItemHints(ctx, txRepo, orderRepo, c)
	})
	if err != nil {
		return nil, err
	}

	w.logger.Info("Reconciliation candidate confirmed",
		"candidate_id", c.ID.String(),
		"transaction_id", c.TransactionID.String(),
		"order_id", c.OrderID.String(),
	)

	return w.candidates.GetByID(ctx, c.ID)
}

// applyItemHints folds the order's item-level category and deductibility
// hints into the transaction, inside the same confirm transaction. A
// user-confirmed transaction keeps its own tax fields; the guarded UPDATE
// reports that as zero affected rows.
func (w *ReconciliationWorkflow) applyItemHints(ctx context.Context, txRepo transaction.Repository, orderRepo order.Repository, c *reconciliation.Candidate) error {
	items, err := orderRepo.GetItems(ctx, c.OrderID)
	if err != nil {
		return err
	}

	hints := order.DeriveTaxHints(items)
	if hints.Empty() {
		return nil
	}

	update := transaction.TaxHintUpdate{TaxDeductible: hints.Deductible}
	if hints.Category != "" {
		update.TaxCategory = &hints.Category
	}

	affected, err := txRepo.ApplyTaxHints(ctx, c.TransactionID, update)
	if err != nil {
		return err
	}
	if affected == 0 {
		w.logger.Debug("Transaction is user-confirmed, keeping its tax fields",
			"transaction_id", c.TransactionID.String(),
		)
	}
	return nil
}

// Reject seals the candidate without touching the transaction or order; the
// transaction stays eligible for a different candidate.
func (w *ReconciliationWorkflow) Reject(ctx context.Context, callerUserID, candidateID uuid.UUID) (*reconciliation.Candidate, error) {
	c, err := w.loadForReview(ctx, callerUserID, candidateID)
	if err != nil {
		return nil, err
	}

	affected, err := w.candidates.Transition(ctx, c.ID, reconciliation.StatusRejected, time.Now())
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, shared.StateConflictError{Resource: "reconciliation candidate", ID: c.ID, Status: string(c.Status)}
	}

	w.logger.Info("Reconciliation candidate rejected",
		"candidate_id", c.ID.String(),
		"transaction_id", c.TransactionID.String(),
	)

	return w.candidates.GetByID(ctx, c.ID)
}

// loadForReview fetches the candidate and enforces ownership and the
// pending-only invariant before any mutation.
func (w *ReconciliationWorkflow) loadForReview(ctx context.Context, callerUserID, candidateID uuid.UUID) (*reconciliation.Candidate, error) {
	c, err := w.candidates.GetByID(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	if c.UserID != callerUserID {
		return nil, shared.OwnershipError{Resource: "reconciliation candidate", ID: candidateID}
	}
	if !c.Pending() {
		return nil, shared.StateConflictError{Resource: "reconciliation candidate", ID: candidateID, Status: string(c.Status)}
	}

	return c, nil
}
