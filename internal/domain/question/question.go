// Package question defines pending clarifications raised by the
// categorization engine when classifier confidence is too low to
// auto-apply a result.
package question

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Type is the tagged union discriminating how an answer is interpreted.
type Type string

const (
	// TypeCategory asks which category the transaction belongs to.
	TypeCategory Type = "category"
	// TypeBusinessPersonal asks whether the spend was business or personal.
	TypeBusinessPersonal Type = "business_personal"
	// TypeConfirm asks the user to confirm or reject the engine's guess.
	TypeConfirm Type = "confirm"
	// TypeSplit asks how a mixed-purpose transaction should be categorized.
	TypeSplit Type = "split"
)

// Valid reports whether t is a known question type.
func (t Type) Valid() bool {
	switch t {
	case TypeCategory, TypeBusinessPersonal, TypeConfirm, TypeSplit:
		return true
	}
	return false
}

// Status is the question lifecycle state. Pending is the only non-terminal
// state; questions are never re-opened.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAnswered Status = "answered"
	StatusSkipped  Status = "skipped"
	StatusExpired  Status = "expired"
)

// Terminal reports whether the status admits no further transition.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// Question is a pending clarification tied 1:1 to a transaction. At most one
// pending question exists per transaction at any time.
type Question struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	TransactionID uuid.UUID  `json:"transaction_id"`
	Text          string     `json:"text"`
	Options       []string   `json:"options"` // ordered allowed answers; empty means free text
	AIConfidence  float64    `json:"ai_confidence"`
	AIBestGuess   string     `json:"ai_best_guess"`
	Type          Type       `json:"question_type"`
	Status        Status     `json:"status"`
	UserAnswer    *string    `json:"user_answer,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	AnsweredAt    *time.Time `json:"answered_at,omitempty"`
}

// NewQuestion creates a pending question for a transaction.
func NewQuestion(userID, transactionID uuid.UUID, text string, options []string, confidence float64, bestGuess string, qType Type) *Question {
	return &Question{
		ID:            uuid.New(),
		UserID:        userID,
		TransactionID: transactionID,
		Text:          text,
		Options:       options,
		AIConfidence:  confidence,
		AIBestGuess:   bestGuess,
		Type:          qType,
		Status:        StatusPending,
		CreatedAt:     time.Now(),
	}
}

// MatchesOption reports whether the raw answer equals one of the preset
// options, case-insensitively. Free-text questions (no options) never match.
func (q *Question) MatchesOption(answer string) bool {
	for _, opt := range q.Options {
		if strings.EqualFold(opt, strings.TrimSpace(answer)) {
			return true
		}
	}
	return false
}
