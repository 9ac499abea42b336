package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/ledgermind/categorization-engine/internal/classifier"
	"github.com/ledgermind/categorization-engine/internal/domain/audit"
	"github.com/ledgermind/categorization-engine/internal/domain/outbox"
	"github.com/ledgermind/categorization-engine/internal/domain/question"
	"github.com/ledgermind/categorization-engine/internal/domain/shared"
	"github.com/ledgermind/categorization-engine/internal/domain/transaction"
)

// Orchestrator runs one categorization batch per task: it pulls a bounded
// set of unclassified transactions for one user, calls the classifier once,
// and applies every decision plus the completion event's outbox row in a
// single database transaction. A failed classifier call mutates nothing.
type Orchestrator struct {
	db            TxRunner
	transactions  transaction.Repository
	questionStore *QuestionStore
	classifier    classifier.Classifier
	outbox        outbox.Repository
	audits        audit.Repository
	batchSize     int
	logger        *slog.Logger
}

// NewOrchestrator creates a categorization orchestrator.
func NewOrchestrator(
	logger *slog.Logger,
	db TxRunner,
	transactions transaction.Repository,
	questionStore *QuestionStore,
	clf classifier.Classifier,
	outboxRepo outbox.Repository,
	audits audit.Repository,
	batchSize int,
) *Orchestrator {
	return &Orchestrator{
		db:            db,
		transactions:  transactions,
		questionStore: questionStore,
		classifier:    clf,
		outbox:        outboxRepo,
		audits:        audits,
		batchSize:     batchSize,
		logger:        logger,
	}
}

// ProcessTask runs one categorization batch. The returned summary reports
// what happened; an error means the batch failed as a whole and may be
// retried by the caller with no partial state left behind.
func (o *Orchestrator) ProcessTask(ctx context.Context, task *shared.CategorizationTask) (*shared.BatchSummary, error) {
	logger := o.logger
	if task.CorrelationID != "" {
		logger = o.logger.With("correlation_id", task.CorrelationID)
	}
	logger = logger.With("task_id", task.TaskID.String(), "user_id", task.UserID.String())

	batch, err := o.transactions.ListPendingClassification(ctx, task.UserID, o.batchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to load batch: %w", err)
	}
	if len(batch) == 0 {
		logger.Info("No transactions pending classification")
		return &shared.BatchSummary{}, nil
	}

	logger.Info("Classifying batch", "batch_size", len(batch))

	results, err := o.classifier.Classify(ctx, task.UserID, batch)
	if err != nil {
		// The whole batch fails and nothing was mutated; the caller decides
		// whether to retry.
		logger.Error("Classifier call failed", "error", err)
		return nil, err
	}

	byID := make(map[string]*transaction.Transaction, len(batch))
	for _, tx := range batch {
		byID[tx.ID.String()] = tx
	}

	summary := &shared.BatchSummary{}
	decisions := make([]Decision, 0, len(results))
	auditDecisions := make([]audit.Decision, 0, len(results))
	questionResults := make(map[string]classifier.Result)

	for _, result := range results {
		if err := result.Validate(); err != nil {
			var malformed shared.MalformedResultError
			if errors.As(err, &malformed) {
				logger.Warn("Skipping malformed classifier result",
					"result_id", result.ID,
					"reason", malformed.Reason,
				)
				summary.Skipped++
				auditDecisions = append(auditDecisions, audit.Decision{
					SkipReason: malformed.Reason,
				})
				continue
			}
			return nil, err
		}

		tx, ok := byID[result.ID]
		if !ok {
			logger.Warn("Classifier returned a result for a transaction outside the batch", "result_id", result.ID)
			summary.Skipped++
			auditDecisions = append(auditDecisions, audit.Decision{
				SkipReason: "transaction not in batch",
			})
			continue
		}

		decision, err := Decide(result)
		if err != nil {
			logger.Warn("Skipping undecidable classifier result", "result_id", result.ID, "error", err)
			summary.Skipped++
			auditDecisions = append(auditDecisions, audit.Decision{
				SkipReason: err.Error(),
			})
			continue
		}
		decisions = append(decisions, decision)
		if decision.AskQuestion {
			questionResults[result.ID] = result
		}

		auditDecisions = append(auditDecisions, audit.Decision{
			TransactionID: tx.ID,
			Category:      result.Category,
			Confidence:    result.Confidence,
			ReviewStatus:  string(decision.Update.ReviewStatus),
			QuestionAsked: decision.AskQuestion,
		})
	}

	err = o.db.ExecuteTx(ctx, func(tx pgx.Tx) error {
		txRepo := o.transactions.WithTx(tx)
		store := o.questionStore.WithTx(tx)
		outboxRepo := o.outbox.WithTx(tx)

		for _, decision := range decisions {
			affected, err := txRepo.ApplyClassification(ctx, decision.TransactionID, decision.Update)
			if err != nil {
				return err
			}
			if affected == 0 {
				// The row was user-confirmed since the batch was pulled.
				summary.Skipped++
				continue
			}

			switch decision.Update.ReviewStatus {
			case transaction.ReviewStatusAutoCategorized:
				summary.AutoCategorized++
			case transaction.ReviewStatusAIUncertain:
				summary.NeedsReview++
			}

			if !decision.AskQuestion {
				continue
			}

			result := questionResults[decision.TransactionID.String()]
			owner := byID[decision.TransactionID.String()]
			created, err := store.EnsureQuestion(ctx,
				owner.UserID,
				decision.TransactionID,
				*result.SuggestedQuestion,
				result.QuestionOptions,
				result.Confidence,
				result.Category,
				questionType(result),
			)
			if err != nil {
				return err
			}
			if created {
				summary.QuestionsCreated++
			}
		}

		event := &shared.CompletionEvent{
			UserID:                task.UserID,
			QuestionsCreatedCount: summary.QuestionsCreated,
		}
		message, err := outbox.NewMessage(task.TaskID, event)
		if err != nil {
			return err
		}
		return outboxRepo.Create(ctx, message)
	})
	if err != nil {
		return nil, err
	}

	o.recordAudit(ctx, logger, task, results, auditDecisions)

	logger.Info("Batch committed",
		"auto_categorized", summary.AutoCategorized,
		"needs_review", summary.NeedsReview,
		"questions_created", summary.QuestionsCreated,
		"skipped", summary.Skipped,
	)
	return summary, nil
}

// recordAudit writes the batch's audit document to the query store. Best
// effort: the batch has already committed, so a failed write is only logged.
func (o *Orchestrator) recordAudit(ctx context.Context, logger *slog.Logger, task *shared.CategorizationTask, results []classifier.Result, decisions []audit.Decision) {
	raw, err := json.Marshal(results)
	if err != nil {
		logger.Error("Failed to marshal classifier results for audit", "error", err)
		raw = nil
	}

	record := &audit.BatchRecord{
		TaskID:        task.TaskID,
		UserID:        task.UserID,
		CorrelationID: task.CorrelationID,
		RawResponse:   raw,
		Decisions:     decisions,
		CreatedAt:     time.Now(),
	}
	if err := o.audits.Create(ctx, record); err != nil {
		logger.Error("Failed to record batch audit document", "error", err)
	}
}

// questionType reads the suggested question's type, defaulting to category
// when the service suggested a question without typing it.
func questionType(result classifier.Result) question.Type {
	if result.QuestionType != nil {
		return question.Type(*result.QuestionType)
	}
	return question.TypeCategory
}
