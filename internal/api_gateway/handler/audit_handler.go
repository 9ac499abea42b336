package handler

import (
	"errors"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/api_gateway/middleware"
	"github.com/ledgermind/categorization-engine/internal/api_gateway/service"
	"github.com/ledgermind/categorization-engine/internal/domain/audit"
)

// AuditHandler handles HTTP requests for batch audit records
type AuditHandler struct {
	auditService service.AuditService
	logger       *slog.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(logger *slog.Logger, auditService service.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// GetByTaskID retrieves the audit record of one categorization batch
func (h *AuditHandler) GetByTaskID(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		RespondBadRequest(c, "Invalid task ID")
		return
	}

	userID := middleware.GetUserID(c)

	record, err := h.auditService.GetByTaskID(c.Request.Context(), taskID)
	if err != nil {
		var notFound audit.ErrRecordNotFound
		if errors.As(err, &notFound) {
			RespondNotFound(c, "Batch record not found")
			return
		}
		h.logger.Error("Failed to get batch record", "task_id", taskID, "error", err)
		RespondInternalError(c)
		return
	}

	// Audit documents are per user; another user's batch reads as missing.
	if record.UserID != userID {
		RespondNotFound(c, "Batch record not found")
		return
	}

	RespondOK(c, record)
}

// ListByUser retrieves a page of the caller's batch records, newest first
func (h *AuditHandler) ListByUser(c *gin.Context) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	userID := middleware.GetUserID(c)

	records, err := h.auditService.ListByUser(c.Request.Context(), userID, params.Page, params.PerPage)
	if err != nil {
		h.logger.Error("Failed to list batch records", "user_id", userID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondWithPage(c, 200, gin.H{"batches": records}, params.Page, params.PerPage)
}
