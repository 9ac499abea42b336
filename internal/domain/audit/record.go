// Package audit defines the query-side record of classification batches.
// Every batch the engine runs is captured as one document holding the raw
// classifier payload and the decision taken per transaction, so support can
// reconstruct why a transaction ended up in its review state.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Decision is the per-transaction outcome recorded in a batch document.
type Decision struct {
	TransactionID uuid.UUID `json:"transaction_id" bson:"transaction_id"`
	Category      string    `json:"category,omitempty" bson:"category,omitempty"`
	Confidence    float64   `json:"confidence" bson:"confidence"`
	ReviewStatus  string    `json:"review_status" bson:"review_status"`
	QuestionAsked bool      `json:"question_asked" bson:"question_asked"`
	SkipReason    string    `json:"skip_reason,omitempty" bson:"skip_reason,omitempty"`
}

// BatchRecord is one classification batch as it was decided.
type BatchRecord struct {
	TaskID        uuid.UUID       `json:"task_id" bson:"task_id"`
	UserID        uuid.UUID       `json:"user_id" bson:"user_id"`
	CorrelationID string          `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	RawResponse   json.RawMessage `json:"raw_response,omitempty" bson:"raw_response,omitempty"`
	Decisions     []Decision      `json:"decisions" bson:"decisions"`
	CreatedAt     time.Time       `json:"created_at" bson:"created_at"`
}
