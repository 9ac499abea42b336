// Package transaction defines the ledger-entry domain model of the
// categorization engine: a bank transaction with its engine-assigned
// category, user overrides and review lifecycle.
package transaction

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReviewStatus is the lifecycle state of a transaction's categorization.
type ReviewStatus string

const (
	// ReviewStatusPendingAI marks imported transactions not yet classified.
	ReviewStatusPendingAI ReviewStatus = "pending_ai"
	// ReviewStatusAutoCategorized marks high-confidence automatic classification.
	ReviewStatusAutoCategorized ReviewStatus = "auto_categorized"
	// ReviewStatusNeedsReview marks rows requiring manual follow-up.
	ReviewStatusNeedsReview ReviewStatus = "needs_review"
	// ReviewStatusAIUncertain marks low-confidence classification awaiting an answer.
	ReviewStatusAIUncertain ReviewStatus = "ai_uncertain"
	// ReviewStatusUserConfirmed is terminal: no automated process may
	// overwrite category, expense type or deductibility after this.
	ReviewStatusUserConfirmed ReviewStatus = "user_confirmed"
)

// Valid reports whether s is a known review status.
func (s ReviewStatus) Valid() bool {
	switch s {
	case ReviewStatusPendingAI, ReviewStatusAutoCategorized, ReviewStatusNeedsReview,
		ReviewStatusAIUncertain, ReviewStatusUserConfirmed:
		return true
	}
	return false
}

// ExpenseType classifies spending purpose, driving tax-deductibility defaults.
type ExpenseType string

const (
	ExpenseTypePersonal ExpenseType = "personal"
	ExpenseTypeBusiness ExpenseType = "business"
	ExpenseTypeMixed    ExpenseType = "mixed"
)

// Valid reports whether e is a known expense type.
func (e ExpenseType) Valid() bool {
	switch e {
	case ExpenseTypePersonal, ExpenseTypeBusiness, ExpenseTypeMixed:
		return true
	}
	return false
}

// ExpenseTypeFromAnswer classifies free-form answer text into an expense type
// using case-insensitive substring matching. "split" counts as mixed.
// The boolean is false when the text matches none of the known purposes.
func ExpenseTypeFromAnswer(answer string) (ExpenseType, bool) {
	lowered := strings.ToLower(answer)
	switch {
	case strings.Contains(lowered, "mixed"), strings.Contains(lowered, "split"):
		return ExpenseTypeMixed, true
	case strings.Contains(lowered, "business"):
		return ExpenseTypeBusiness, true
	case strings.Contains(lowered, "personal"):
		return ExpenseTypePersonal, true
	}
	return "", false
}

// Transaction represents a single ledger entry. Amounts are signed minor
// units: positive = outflow/spend, negative = inflow/income.
type Transaction struct {
	ID                 uuid.UUID    `json:"id"`
	UserID             uuid.UUID    `json:"user_id"`
	Date               time.Time    `json:"date"`
	AmountMinor        int64        `json:"amount_minor"`
	Currency           string       `json:"currency"`
	MerchantName       string       `json:"merchant_name"`
	MerchantNormalized string       `json:"merchant_normalized"`
	Description        string       `json:"description"`
	AICategory         *string      `json:"ai_category,omitempty"`
	AIConfidence       *float64     `json:"ai_confidence,omitempty"`
	UserCategory       *string      `json:"user_category,omitempty"`
	ExpenseType        ExpenseType  `json:"expense_type"`
	TaxDeductible      bool         `json:"tax_deductible"`
	TaxCategory        *string      `json:"tax_category,omitempty"`
	IsSubscription     bool         `json:"is_subscription"`
	ReviewStatus       ReviewStatus `json:"review_status"`
	IsReconciled       bool         `json:"is_reconciled"`
	MatchedOrderID     *uuid.UUID   `json:"matched_order_id,omitempty"`
	CreatedAt          time.Time    `json:"created_at"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// EffectiveCategory returns the user override when present, otherwise the
// engine-assigned category.
func (t *Transaction) EffectiveCategory() string {
	if t.UserCategory != nil && *t.UserCategory != "" {
		return *t.UserCategory
	}
	if t.AICategory != nil {
		return *t.AICategory
	}
	return ""
}

// MerchantKey returns the key used for propagation matching: the normalized
// merchant name when available, falling back to the raw name.
func (t *Transaction) MerchantKey() string {
	if t.MerchantNormalized != "" {
		return t.MerchantNormalized
	}
	return t.MerchantName
}

// IsUserConfirmed reports whether the row has reached its terminal state.
func (t *Transaction) IsUserConfirmed() bool {
	return t.ReviewStatus == ReviewStatusUserConfirmed
}
