// Package outbox implements the transactional outbox used to publish
// completion events. An event row is inserted in the same database
// transaction as the batch it reports on, so an event is emitted if and
// only if the batch committed.
package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/domain/shared"
)

// Message stores a completion event for reliable publishing
type Message struct {
	ID            int64               `json:"id"`
	TaskID        uuid.UUID           `json:"task_id"`
	UserID        uuid.UUID           `json:"user_id"`
	Payload       json.RawMessage     `json:"payload"`
	Status        shared.OutboxStatus `json:"status"`
	Attempts      int                 `json:"attempts"`
	CreatedAt     time.Time           `json:"created_at"`
	LastAttemptAt *time.Time          `json:"last_attempt_at,omitempty"`
}

// NewMessage wraps a completion event for the given task into a pending
// outbox message.
func NewMessage(taskID uuid.UUID, event *shared.CompletionEvent) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &Message{
		TaskID:    taskID,
		UserID:    event.UserID,
		Payload:   payload,
		Status:    shared.OutboxStatusPending,
		Attempts:  0,
		CreatedAt: time.Now(),
	}, nil
}

func (m *Message) IncrementAttempts() {
	m.Attempts++
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsProcessed() {
	m.Status = shared.OutboxStatusProcessed
	now := time.Now()
	m.LastAttemptAt = &now
}

func (m *Message) MarkAsFailed() {
	m.Status = shared.OutboxStatusFailedToPublish
	now := time.Now()
	m.LastAttemptAt = &now
}

// GetCompletionEvent extracts the completion event from the payload
func (m *Message) GetCompletionEvent() (*shared.CompletionEvent, error) {
	var event shared.CompletionEvent
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
