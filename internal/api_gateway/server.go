package api_gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgermind/categorization-engine/internal/api_gateway/handler"
	"github.com/ledgermind/categorization-engine/internal/api_gateway/service"
	"github.com/ledgermind/categorization-engine/internal/config"
)

// Server handles HTTP requests and manages the application's lifecycle
type Server struct {
	logger     *slog.Logger // For structured logging
	httpServer *http.Server // Underlying HTTP server
	httpRouter *gin.Engine  // Gin router instance
}

// Services bundles everything the gateway exposes over HTTP
type Services struct {
	Questions      service.QuestionService
	Reconciliation service.ReconciliationService
	Transactions   service.TransactionService
	Tasks          service.TaskService
	Audit          service.AuditService
}

// NewServer creates and configures a new HTTP server with the given services
func NewServer(log *slog.Logger, cfg *config.Config, services Services) *Server {
	if cfg.Application.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	httpRouter := gin.New()

	questionHandler := handler.NewQuestionHandler(log, services.Questions)
	reconciliationHandler := handler.NewReconciliationHandler(log, services.Reconciliation)
	transactionHandler := handler.NewTransactionHandler(log, services.Transactions)
	taskHandler := handler.NewTaskHandler(log, services.Tasks)
	auditHandler := handler.NewAuditHandler(log, services.Audit)

	setupRouter(log, httpRouter, questionHandler, reconciliationHandler, transactionHandler, taskHandler, auditHandler)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      httpRouter,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Server{
		logger:     log,
		httpServer: httpServer,
		httpRouter: httpRouter,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the HTTP server with a timeout
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.httpServer.WriteTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop HTTP server: %w", err)
	}

	return nil
}
