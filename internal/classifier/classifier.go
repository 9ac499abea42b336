// Package classifier provides the client for the external text-classification
// service. The engine consumes the service's structured result contract; how
// confidence is computed is entirely the service's concern.
package classifier

import (
	"context"

	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/domain/question"
	"github.com/ledgermind/categorization-engine/internal/domain/shared"
	"github.com/ledgermind/categorization-engine/internal/domain/transaction"
)

// Classifier defines the operations the engine needs from the external
// classification service.
type Classifier interface {
	// Classify submits one batch of transactions and returns one result per
	// transaction the service could classify. The call is synchronous; a
	// timeout is a failure, never a partial success.
	Classify(ctx context.Context, userID uuid.UUID, transactions []*transaction.Transaction) ([]Result, error)

	// InterpretAnswer asks the service to interpret a free-text answer that
	// matched no preset option. It returns a suggestion only; nothing is
	// committed until the caller explicitly applies it.
	InterpretAnswer(ctx context.Context, q *question.Question, tx *transaction.Transaction, rawAnswer string) (*Interpretation, error)
}

// Result is one element of the classifier response, one per transaction.
type Result struct {
	ID                 string   `json:"id"`
	Category           string   `json:"category"`
	Confidence         float64  `json:"confidence"`
	ExpenseType        string   `json:"expense_type"`
	TaxDeductible      bool     `json:"tax_deductible"`
	TaxCategory        *string  `json:"tax_category"`
	IsSubscription     bool     `json:"is_subscription"`
	MerchantNormalized string   `json:"merchant_normalized"`
	SuggestedQuestion  *string  `json:"suggested_question"`
	QuestionType       *string  `json:"question_type"`
	QuestionOptions    []string `json:"question_options"`
}

// Validate checks the required fields of a single result. A failing result
// is skipped individually; it never aborts the batch.
func (r Result) Validate() error {
	if r.ID == "" {
		return shared.MalformedResultError{TransactionID: r.ID, Reason: "missing id"}
	}
	if _, err := uuid.Parse(r.ID); err != nil {
		return shared.MalformedResultError{TransactionID: r.ID, Reason: "id is not a valid uuid"}
	}
	if r.Category == "" {
		return shared.MalformedResultError{TransactionID: r.ID, Reason: "missing category"}
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return shared.MalformedResultError{TransactionID: r.ID, Reason: "confidence out of [0,1]"}
	}
	if !transaction.ExpenseType(r.ExpenseType).Valid() {
		return shared.MalformedResultError{TransactionID: r.ID, Reason: "unknown expense_type"}
	}
	if r.QuestionType != nil && !question.Type(*r.QuestionType).Valid() {
		return shared.MalformedResultError{TransactionID: r.ID, Reason: "unknown question_type"}
	}
	return nil
}

// HasQuestion reports whether the service suggested a clarification.
func (r Result) HasQuestion() bool {
	return r.SuggestedQuestion != nil && *r.SuggestedQuestion != ""
}

// Interpretation is the service's suggested reading of a free-text answer.
// It is returned to the caller without mutating anything so a low-confidence
// natural-language interpretation is never silently committed.
type Interpretation struct {
	Category      string  `json:"category"`
	ExpenseType   string  `json:"expense_type"`
	TaxDeductible bool    `json:"tax_deductible"`
	Confidence    float64 `json:"confidence"`
	Explanation   string  `json:"explanation"`
}
