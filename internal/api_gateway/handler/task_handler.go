package handler

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgermind/categorization-engine/internal/api_gateway/middleware"
	"github.com/ledgermind/categorization-engine/internal/api_gateway/service"
)

// TaskHandler handles HTTP requests for categorization task enqueueing
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(logger *slog.Logger, taskService service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		logger:      logger,
	}
}

// Enqueue publishes a categorization task for the caller and returns 202.
// The batch runs asynchronously in the worker; the returned task id keys
// the audit record written when it completes.
func (h *TaskHandler) Enqueue(c *gin.Context) {
	userID := middleware.GetUserID(c)
	correlationID := middleware.GetCorrelationID(c)

	task, err := h.taskService.Enqueue(c.Request.Context(), userID, correlationID)
	if err != nil {
		h.logger.Error("Failed to enqueue categorization task", "user_id", userID, "error", err)
		RespondInternalError(c)
		return
	}

	RespondAccepted(c, gin.H{
		"task_id":      task.TaskID.String(),
		"status":       "queued",
		"requested_at": task.RequestedAt.Format(time.RFC3339),
	})
}
