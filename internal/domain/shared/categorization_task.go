package shared

import (
	"time"

	"github.com/google/uuid"
)

// CategorizationTask defines a Kafka message requesting a categorization run
// for one user. Import pipelines enqueue one task per user; messages are keyed
// by user id so tasks for the same user land on the same partition and never
// run concurrently.
type CategorizationTask struct {
	TaskID        uuid.UUID `json:"task_id"`
	UserID        uuid.UUID `json:"user_id"`
	CorrelationID string    `json:"correlation_id"`
	RequestedAt   time.Time `json:"requested_at"`
}

// CompletionEvent is emitted after a categorization batch commits. Downstream
// subscription and budget detectors consume it; the engine does not know what
// they do with it.
type CompletionEvent struct {
	UserID                uuid.UUID `json:"user_id"`
	QuestionsCreatedCount int       `json:"questions_created_count"`
}

// BatchSummary reports the outcome of one categorization batch to the caller.
type BatchSummary struct {
	AutoCategorized  int `json:"auto_categorized_count"`
	NeedsReview      int `json:"needs_review_count"`
	QuestionsCreated int `json:"questions_created_count"`
	Skipped          int `json:"skipped_count"`
}
