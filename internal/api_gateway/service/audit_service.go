package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/domain/audit"
)

// AuditServiceImpl implements the AuditService interface
type AuditServiceImpl struct {
	audits audit.Repository
	logger *slog.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(logger *slog.Logger, audits audit.Repository) *AuditServiceImpl {
	return &AuditServiceImpl{
		audits: audits,
		logger: logger,
	}
}

// GetByTaskID retrieves the audit record of one categorization batch
func (s *AuditServiceImpl) GetByTaskID(ctx context.Context, taskID uuid.UUID) (*audit.BatchRecord, error) {
	return s.audits.GetByTaskID(ctx, taskID)
}

// ListByUser retrieves a page of the user's batch records, newest first
func (s *AuditServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID, page, perPage int) ([]*audit.BatchRecord, error) {
	offset := (page - 1) * perPage
	records, err := s.audits.ListByUser(ctx, userID, perPage, offset)
	if err != nil {
		s.logger.Error("Failed to list batch records", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list batch records: %w", err)
	}
	return records, nil
}
