package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/api_gateway/middleware"
	"github.com/ledgermind/categorization-engine/internal/api_gateway/service"
)

// ReconciliationHandler handles HTTP requests for order match review
type ReconciliationHandler struct {
	reconciliationService service.ReconciliationService
	logger                *slog.Logger
}

// NewReconciliationHandler creates a new reconciliation handler
func NewReconciliationHandler(logger *slog.Logger, reconciliationService service.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconciliationService: reconciliationService,
		logger:                logger,
	}
}

// ListPending retrieves the caller's open candidates, best matches first
func (h *ReconciliationHandler) ListPending(c *gin.Context) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	offset := (params.Page - 1) * params.PerPage

	candidates, err := h.reconciliationService.ListPending(c.Request.Context(), userID, params.PerPage, offset)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	responses := make([]CandidateResponse, 0, len(candidates))
	for _, cand := range candidates {
		responses = append(responses, mapCandidateToResponse(cand))
	}

	RespondWithPage(c, 200, gin.H{"candidates": responses}, params.Page, params.PerPage)
}

// Confirm accepts a candidate match, linking the transaction and the order
func (h *ReconciliationHandler) Confirm(c *gin.Context) {
	candidateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid candidate ID")
		return
	}

	userID := middleware.GetUserID(c)

	candidate, err := h.reconciliationService.Confirm(c.Request.Context(), userID, candidateID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapCandidateToResponse(candidate))
}

// Reject declines a candidate match; the transaction and order stay untouched
func (h *ReconciliationHandler) Reject(c *gin.Context) {
	candidateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid candidate ID")
		return
	}

	userID := middleware.GetUserID(c)

	candidate, err := h.reconciliationService.Reject(c.Request.Context(), userID, candidateID)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapCandidateToResponse(candidate))
}
