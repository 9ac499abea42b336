// Package reconciliation defines proposed links between bank transactions
// and independently extracted purchase orders.
package reconciliation

import (
	"time"

	"github.com/google/uuid"
)

// Status is the candidate lifecycle state. Only pending candidates may
// transition; confirmed and rejected are terminal.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusRejected  Status = "rejected"
)

// Candidate is a proposed transaction-order link. The confidence score is
// computed by the upstream matching batch and treated as opaque here; the
// engine only governs the confirm/reject transition. Candidates are unique
// per (transaction_id, order_id) pair.
type Candidate struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	TransactionID uuid.UUID  `json:"transaction_id"`
	OrderID       uuid.UUID  `json:"order_id"`
	Confidence    float64    `json:"confidence"`
	Status        Status     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
}

// Pending reports whether the candidate may still transition.
func (c *Candidate) Pending() bool {
	return c.Status == StatusPending
}
