package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/ledgermind/categorization-engine/internal/classifier"
	"github.com/ledgermind/categorization-engine/internal/domain/question"
	"github.com/ledgermind/categorization-engine/internal/domain/shared"
	"github.com/ledgermind/categorization-engine/internal/domain/transaction"
)

// SkipAnswer is the reserved answer that closes a question without touching
// the transaction.
const SkipAnswer = "Skip"

// ErrAnswerNotUnderstood is returned when a free-text answer matches no
// preset option and cannot be mapped directly. Callers should route the
// answer through the two-phase Interpret/ApplyInterpretation path instead.
var ErrAnswerNotUnderstood = errors.New("answer does not match any known option")

// TxRunner runs a function inside one database transaction.
// *persistence.PostgresDB satisfies it.
type TxRunner interface {
	ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

// AnswerResolver applies a user's answer to the owning transaction and
// propagates it to unconfirmed merchant siblings.
type AnswerResolver struct {
	db           TxRunner
	transactions transaction.Repository
	questions    question.Repository
	classifier   classifier.Classifier
	logger       *slog.Logger
}

// NewAnswerResolver creates an answer resolver.
func NewAnswerResolver(
	logger *slog.Logger,
	db TxRunner,
	transactions transaction.Repository,
	questions question.Repository,
	clf classifier.Classifier,
) *AnswerResolver {
	return &AnswerResolver{
		db:           db,
		transactions: transactions,
		questions:    questions,
		classifier:   clf,
		logger:       logger,
	}
}

// Resolve applies rawAnswer to the question's transaction. "Skip" closes the
// question without mutating the transaction. Every other answer is
// interpreted per question type, written to the owning transaction, and
// propagated to the user's unconfirmed transactions at the same merchant,
// all inside one database transaction. The updated owning transaction is
// returned.
func (r *AnswerResolver) Resolve(ctx context.Context, callerUserID, questionID uuid.UUID, rawAnswer string) (*transaction.Transaction, error) {
	q, ownTx, err := r.loadForAnswer(ctx, callerUserID, questionID)
	if err != nil {
		return nil, err
	}

	if strings.EqualFold(strings.TrimSpace(rawAnswer), SkipAnswer) {
		if err := r.skip(ctx, q); err != nil {
			return nil, err
		}
		return ownTx, nil
	}

	update, err := interpretAnswer(q.Type, rawAnswer)
	if err != nil {
		return nil, err
	}

	if err := r.apply(ctx, q, ownTx, rawAnswer, update); err != nil {
		return nil, err
	}

	return r.transactions.GetByID(ctx, q.TransactionID)
}

// Interpret asks the classifier what a free-text answer means. Nothing is
// mutated; the suggestion must be committed through ApplyInterpretation.
func (r *AnswerResolver) Interpret(ctx context.Context, callerUserID, questionID uuid.UUID, rawAnswer string) (*classifier.Interpretation, error) {
	q, ownTx, err := r.loadForAnswer(ctx, callerUserID, questionID)
	if err != nil {
		return nil, err
	}

	return r.classifier.InterpretAnswer(ctx, q, ownTx, rawAnswer)
}

// ApplyInterpretation commits a previously returned interpretation: the
// question is answered with rawAnswer and the suggested category, expense
// type and deductibility are written and propagated exactly as a direct
// answer would be.
func (r *AnswerResolver) ApplyInterpretation(ctx context.Context, callerUserID, questionID uuid.UUID, rawAnswer string, interp *classifier.Interpretation) (*transaction.Transaction, error) {
	if interp == nil {
		return nil, errors.New("interpretation is required")
	}
	expenseType := transaction.ExpenseType(interp.ExpenseType)
	if !expenseType.Valid() {
		return nil, fmt.Errorf("interpretation carries unknown expense type %q", interp.ExpenseType)
	}

	q, ownTx, err := r.loadForAnswer(ctx, callerUserID, questionID)
	if err != nil {
		return nil, err
	}

	category := interp.Category
	taxDeductible := interp.TaxDeductible
	update := transaction.ConfirmationUpdate{
		UserCategory:  &category,
		ExpenseType:   &expenseType,
		TaxDeductible: &taxDeductible,
		ReviewStatus:  transaction.ReviewStatusUserConfirmed,
	}

	if err := r.apply(ctx, q, ownTx, rawAnswer, update); err != nil {
		return nil, err
	}

	return r.transactions.GetByID(ctx, q.TransactionID)
}

// loadForAnswer fetches the question and its transaction, enforcing
// ownership and the pending-only invariant before any mutation is attempted.
func (r *AnswerResolver) loadForAnswer(ctx context.Context, callerUserID, questionID uuid.UUID) (*question.Question, *transaction.Transaction, error) {
	q, err := r.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, nil, err
	}

	if q.UserID != callerUserID {
		return nil, nil, shared.OwnershipError{Resource: "question", ID: questionID}
	}
	if q.Status.Terminal() {
		return nil, nil, shared.StateConflictError{Resource: "question", ID: questionID, Status: string(q.Status)}
	}

	ownTx, err := r.transactions.GetByID(ctx, q.TransactionID)
	if err != nil {
		return nil, nil, err
	}
	if ownTx.IsUserConfirmed() {
		return nil, nil, shared.StateConflictError{
			Resource: "transaction",
			ID:       ownTx.ID,
			Status:   string(ownTx.ReviewStatus),
		}
	}

	return q, ownTx, nil
}

// skip closes the question as skipped without touching the transaction.
func (r *AnswerResolver) skip(ctx context.Context, q *question.Question) error {
	affected, err := r.questions.Resolve(ctx, q.ID, question.StatusSkipped, nil, time.Now())
	if err != nil {
		return err
	}
	if affected == 0 {
		return shared.StateConflictError{Resource: "question", ID: q.ID, Status: string(question.StatusAnswered)}
	}

	r.logger.Info("Question skipped", "question_id", q.ID.String(), "transaction_id", q.TransactionID.String())
	return nil
}

// interpretAnswer maps an answer to the fields it implies. The question type
// is a tagged union; every arm is explicit and unknown types are an error.
func interpretAnswer(qType question.Type, rawAnswer string) (transaction.ConfirmationUpdate, error) {
	answer := strings.TrimSpace(rawAnswer)

	switch qType {
	case question.TypeBusinessPersonal:
		expenseType, ok := transaction.ExpenseTypeFromAnswer(answer)
		if !ok {
			return transaction.ConfirmationUpdate{}, ErrAnswerNotUnderstood
		}
		taxDeductible := expenseType != transaction.ExpenseTypePersonal
		return transaction.ConfirmationUpdate{
			ExpenseType:   &expenseType,
			TaxDeductible: &taxDeductible,
			ReviewStatus:  transaction.ReviewStatusUserConfirmed,
		}, nil

	case question.TypeCategory:
		return transaction.ConfirmationUpdate{
			UserCategory: &answer,
			ReviewStatus: transaction.ReviewStatusUserConfirmed,
		}, nil

	case question.TypeConfirm:
		lowered := strings.ToLower(answer)
		if strings.Contains(lowered, "yes") || strings.Contains(lowered, "correct") {
			// Keep the AI fields, just seal the row.
			return transaction.ConfirmationUpdate{
				ReviewStatus: transaction.ReviewStatusUserConfirmed,
			}, nil
		}
		// The guess was rejected; the row needs manual follow-up.
		return transaction.ConfirmationUpdate{
			ReviewStatus: transaction.ReviewStatusNeedsReview,
		}, nil

	case question.TypeSplit:
		update := transaction.ConfirmationUpdate{
			UserCategory: &answer,
			ReviewStatus: transaction.ReviewStatusUserConfirmed,
		}
		if strings.Contains(strings.ToLower(answer), "mixed") {
			mixed := transaction.ExpenseTypeMixed
			update.ExpenseType = &mixed
		}
		return update, nil

	default:
		return transaction.ConfirmationUpdate{}, fmt.Errorf("unhandled question type %q", qType)
	}
}

// apply answers the question, writes the update to the owning transaction
// and propagates to merchant siblings, atomically. Either the question, the
// owning row, the sibling rows and their pending questions all update, or
// none do.
func (r *AnswerResolver) apply(ctx context.Context, q *question.Question, ownTx *transaction.Transaction, rawAnswer string, update transaction.ConfirmationUpdate) error {
	now := time.Now()

	err := r.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		txRepo := r.transactions.WithTx(tx)
		qRepo := r.questions.WithTx(tx)

		affected, err := qRepo.Resolve(ctx, q.ID, question.StatusAnswered, &rawAnswer, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			return shared.StateConflictError{Resource: "question", ID: q.ID, Status: string(question.StatusAnswered)}
		}

		if err := txRepo.ApplyConfirmation(ctx, q.TransactionID, update); err != nil {
			return err
		}

		// Propagation only follows a confirmed answer; a rejected guess
		// (needs_review) says nothing about sibling transactions.
		if update.ReviewStatus != transaction.ReviewStatusUserConfirmed {
			return nil
		}

		merchantKey := ownTx.MerchantKey()
		if merchantKey == "" {
			return nil
		}

		propagated, err := txRepo.PropagateToMerchant(ctx, q.UserID, merchantKey, ownTx.ID, update)
		if err != nil {
			return err
		}

		siblingQuestions, err := qRepo.AnswerPendingForMerchant(ctx, q.UserID, merchantKey, ownTx.ID, rawAnswer, now)
		if err != nil {
			return err
		}

		if propagated > 0 || siblingQuestions > 0 {
			r.logger.Info("Propagated answer to merchant siblings",
				"question_id", q.ID.String(),
				"merchant", merchantKey,
				"transactions_updated", propagated,
				"questions_answered", siblingQuestions,
			)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("Question answered",
		"question_id", q.ID.String(),
		"transaction_id", q.TransactionID.String(),
		"question_type", string(q.Type),
	)
	return nil
}
