package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/ledgermind/categorization-engine/internal/domain/question"
	"github.com/ledgermind/categorization-engine/internal/domain/reconciliation"
	"github.com/ledgermind/categorization-engine/internal/domain/shared"
	"github.com/ledgermind/categorization-engine/internal/domain/transaction"
	"github.com/ledgermind/categorization-engine/internal/engine"
)

// respondDomainError maps engine and repository errors to HTTP responses.
// Ownership violations read as 404 so resource ids cannot be probed across
// users. State conflicts surface as 409 and are never retried.
func respondDomainError(c *gin.Context, logger *slog.Logger, err error) {
	var (
		ownershipErr      shared.OwnershipError
		stateConflictErr  shared.StateConflictError
		txNotFoundErr     transaction.ErrTransactionNotFound
		questionNotFound  question.ErrQuestionNotFound
		candidateNotFound reconciliation.ErrCandidateNotFound
	)

	switch {
	case errors.As(err, &ownershipErr):
		RespondNotFound(c, ownershipErr.Resource+" not found")
	case errors.As(err, &txNotFoundErr):
		RespondNotFound(c, "Transaction not found")
	case errors.As(err, &questionNotFound):
		RespondNotFound(c, "Question not found")
	case errors.As(err, &candidateNotFound):
		RespondNotFound(c, "Reconciliation candidate not found")
	case errors.As(err, &stateConflictErr):
		RespondConflict(c, stateConflictErr.Error())
	case errors.Is(err, engine.ErrAnswerNotUnderstood):
		RespondUnprocessable(c, "Answer does not match any known option; use the interpret endpoint for free-form answers")
	case errors.Is(err, shared.ErrExternalService):
		logger.Error("Classification service unavailable", "error", err)
		RespondWithError(c, 503, "SERVICE_UNAVAILABLE", "Classification service is unavailable, try again later")
	default:
		logger.Error("Unhandled domain error", "error", err)
		RespondInternalError(c)
	}
}
