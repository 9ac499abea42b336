// Package engine implements the categorization decision core: the
// confidence-threshold automaton, the question workflow, answer resolution
// with merchant propagation, the reconciliation transition, and the batch
// orchestrator driving them.
package engine

import (
	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/classifier"
	"github.com/ledgermind/categorization-engine/internal/domain/shared"
	"github.com/ledgermind/categorization-engine/internal/domain/transaction"
)

// Confidence thresholds shared by the decision logic and any reporting code.
// They are the single source of truth; nothing else re-declares these values.
const (
	// ThresholdAuto and above: apply the classification without asking.
	ThresholdAuto = 0.85
	// ThresholdConfirm and above: apply but ask the user to confirm.
	ThresholdConfirm = 0.60
	// ThresholdAsk and above: apply as a best guess, ask an open question.
	ThresholdAsk = 0.40
	// ThresholdUnknown: no usable signal.
	ThresholdUnknown = 0.00
)

// Decision is the side-effect-free outcome of scoring one classifier result.
// It carries everything the orchestrator needs to mutate state later; Decide
// itself performs no I/O.
type Decision struct {
	TransactionID uuid.UUID
	Update        transaction.ClassificationUpdate
	AskQuestion   bool
}

// Decide maps one validated classifier result to the fields to write and
// whether a clarification question should be raised. A result whose id does
// not parse is rejected as malformed rather than producing a decision that
// targets nothing.
//
// At or above ThresholdAuto the classification is applied as-is and any
// suggested question is discarded. Below it, the same fields are still
// written as the best guess, the row is flagged ai_uncertain, and a suggested
// question is handed on.
func Decide(result classifier.Result) (Decision, error) {
	id, err := uuid.Parse(result.ID)
	if err != nil {
		return Decision{}, shared.MalformedResultError{TransactionID: result.ID, Reason: "transaction id is not a valid uuid"}
	}

	update := transaction.ClassificationUpdate{
		Category:       result.Category,
		Confidence:     result.Confidence,
		ExpenseType:    transaction.ExpenseType(result.ExpenseType),
		TaxDeductible:  result.TaxDeductible,
		TaxCategory:    result.TaxCategory,
		IsSubscription: result.IsSubscription,
		Merchant:       result.MerchantNormalized,
	}

	if result.Confidence >= ThresholdAuto {
		update.ReviewStatus = transaction.ReviewStatusAutoCategorized
		return Decision{TransactionID: id, Update: update, AskQuestion: false}, nil
	}

	update.ReviewStatus = transaction.ReviewStatusAIUncertain
	return Decision{TransactionID: id, Update: update, AskQuestion: result.HasQuestion()}, nil
}
