package audit

import (
	"context"

	"github.com/google/uuid"
)

// Repository manages batch record persistence. Writes are best effort; a
// failed audit write never rolls back the batch it describes.
type Repository interface {
	Create(ctx context.Context, record *BatchRecord) error
	GetByTaskID(ctx context.Context, taskID uuid.UUID) (*BatchRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*BatchRecord, error)
}

// ErrRecordNotFound indicates missing batch record
type ErrRecordNotFound struct {
	TaskID uuid.UUID
}

func (e ErrRecordNotFound) Error() string {
	return "batch record not found: " + e.TaskID.String()
}
