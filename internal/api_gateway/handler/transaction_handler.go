package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/api_gateway/middleware"
	"github.com/ledgermind/categorization-engine/internal/api_gateway/service"
	"github.com/ledgermind/categorization-engine/internal/domain/transaction"
)

// TransactionHandler handles HTTP requests for transaction reads
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// GetByID retrieves one of the caller's transactions, 404 if not found
func (h *TransactionHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	userID := middleware.GetUserID(c)

	tx, err := h.transactionService.GetByID(c.Request.Context(), userID, id)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(tx))
}

// listParams represents query parameters for the transaction list endpoint
type listParams struct {
	PaginationParams
	ReviewStatus string `form:"review_status" binding:"required"`
}

// List retrieves a page of the caller's transactions in one review state
func (h *TransactionHandler) List(c *gin.Context) {
	var params listParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	status := transaction.ReviewStatus(params.ReviewStatus)
	if !status.Valid() {
		RespondBadRequest(c, "Unknown review status: "+params.ReviewStatus)
		return
	}

	userID := middleware.GetUserID(c)

	transactions, err := h.transactionService.ListByReviewStatus(c.Request.Context(), userID, status, params.Page, params.PerPage)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	responses := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		responses = append(responses, mapTransactionToResponse(tx))
	}

	RespondWithPage(c, 200, gin.H{"transactions": responses}, params.Page, params.PerPage)
}
