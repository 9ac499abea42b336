package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgermind/categorization-engine/internal/api_gateway/handler"
	"github.com/ledgermind/categorization-engine/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	questionHandler *handler.QuestionHandler,
	reconciliationHandler *handler.ReconciliationHandler,
	transactionHandler *handler.TransactionHandler,
	taskHandler *handler.TaskHandler,
	auditHandler *handler.AuditHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints, all user scoped
	v1 := r.Group("/api/v1")
	v1.Use(middleware.UserIdentity())
	{
		// Clarification questions
		questions := v1.Group("/questions")
		{
			questions.GET("", questionHandler.ListPending)
			questions.POST("/:id/answer", questionHandler.Answer)
			questions.POST("/:id/interpret", questionHandler.Interpret)
			questions.POST("/:id/interpretation", questionHandler.ApplyInterpretation)
		}

		// Order match review
		reconciliation := v1.Group("/reconciliation")
		{
			reconciliation.GET("/candidates", reconciliationHandler.ListPending)
			reconciliation.POST("/candidates/:id/confirm", reconciliationHandler.Confirm)
			reconciliation.POST("/candidates/:id/reject", reconciliationHandler.Reject)
		}

		// Transaction reads
		transactions := v1.Group("/transactions")
		{
			transactions.GET("", transactionHandler.List)
			transactions.GET("/:id", transactionHandler.GetByID)
		}

		// Categorization runs and their audit trail
		categorization := v1.Group("/categorization")
		{
			categorization.POST("/tasks", taskHandler.Enqueue)
			categorization.GET("/batches", auditHandler.ListByUser)
			categorization.GET("/batches/:task_id", auditHandler.GetByTaskID)
		}
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
