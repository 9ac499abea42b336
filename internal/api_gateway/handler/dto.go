package handler

import (
	"time"

	"github.com/ledgermind/categorization-engine/internal/domain/question"
	"github.com/ledgermind/categorization-engine/internal/domain/reconciliation"
	"github.com/ledgermind/categorization-engine/internal/domain/transaction"
)

// AnswerRequest represents a request to answer a pending question
type AnswerRequest struct {
	Answer string `json:"answer" binding:"required"`
}

// InterpretationPayload mirrors the classifier's reading of a free-text
// answer as returned by the interpret endpoint
type InterpretationPayload struct {
	Category      string  `json:"category" binding:"required"`
	ExpenseType   string  `json:"expense_type" binding:"required,oneof=personal business mixed"`
	TaxDeductible bool    `json:"tax_deductible"`
	Confidence    float64 `json:"confidence"`
	Explanation   string  `json:"explanation"`
}

// ApplyInterpretationRequest commits an interpretation the user accepted
type ApplyInterpretationRequest struct {
	Answer         string                `json:"answer" binding:"required"`
	Interpretation InterpretationPayload `json:"interpretation" binding:"required"`
}

// QuestionResponse represents a clarification question in API responses
type QuestionResponse struct {
	ID            string   `json:"id"`
	TransactionID string   `json:"transaction_id"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	AIConfidence  float64  `json:"ai_confidence"`
	AIBestGuess   string   `json:"ai_best_guess"`
	QuestionType  string   `json:"question_type"`
	Status        string   `json:"status"`
	UserAnswer    string   `json:"user_answer,omitempty"`
	CreatedAt     string   `json:"created_at"`
	AnsweredAt    string   `json:"answered_at,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID                 string   `json:"id"`
	Date               string   `json:"date"`
	AmountMinor        int64    `json:"amount_minor"`
	Currency           string   `json:"currency"`
	MerchantName       string   `json:"merchant_name"`
	MerchantNormalized string   `json:"merchant_normalized,omitempty"`
	Description        string   `json:"description,omitempty"`
	Category           string   `json:"category,omitempty"`
	AIConfidence       *float64 `json:"ai_confidence,omitempty"`
	ExpenseType        string   `json:"expense_type"`
	TaxDeductible      bool     `json:"tax_deductible"`
	TaxCategory        string   `json:"tax_category,omitempty"`
	IsSubscription     bool     `json:"is_subscription"`
	ReviewStatus       string   `json:"review_status"`
	IsReconciled       bool     `json:"is_reconciled"`
	MatchedOrderID     string   `json:"matched_order_id,omitempty"`
	CreatedAt          string   `json:"created_at"`
	UpdatedAt          string   `json:"updated_at"`
}

// CandidateResponse represents a reconciliation candidate in API responses
type CandidateResponse struct {
	ID            string  `json:"id"`
	TransactionID string  `json:"transaction_id"`
	OrderID       string  `json:"order_id"`
	Confidence    float64 `json:"confidence"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
	ReviewedAt    string  `json:"reviewed_at,omitempty"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1,max=100"`
}

func mapQuestionToResponse(q *question.Question) QuestionResponse {
	resp := QuestionResponse{
		ID:            q.ID.String(),
		TransactionID: q.TransactionID.String(),
		Text:          q.Text,
		Options:       q.Options,
		AIConfidence:  q.AIConfidence,
		AIBestGuess:   q.AIBestGuess,
		QuestionType:  string(q.Type),
		Status:        string(q.Status),
		CreatedAt:     q.CreatedAt.Format(time.RFC3339),
	}
	if q.UserAnswer != nil {
		resp.UserAnswer = *q.UserAnswer
	}
	if q.AnsweredAt != nil {
		resp.AnsweredAt = q.AnsweredAt.Format(time.RFC3339)
	}
	return resp
}

func mapTransactionToResponse(tx *transaction.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:                 tx.ID.String(),
		Date:               tx.Date.Format(time.RFC3339),
		AmountMinor:        tx.AmountMinor,
		Currency:           tx.Currency,
		MerchantName:       tx.MerchantName,
		MerchantNormalized: tx.MerchantNormalized,
		Description:        tx.Description,
		Category:           tx.EffectiveCategory(),
		AIConfidence:       tx.AIConfidence,
		ExpenseType:        string(tx.ExpenseType),
		TaxDeductible:      tx.TaxDeductible,
		IsSubscription:     tx.IsSubscription,
		ReviewStatus:       string(tx.ReviewStatus),
		IsReconciled:       tx.IsReconciled,
		CreatedAt:          tx.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          tx.UpdatedAt.Format(time.RFC3339),
	}
	if tx.TaxCategory != nil {
		resp.TaxCategory = *tx.TaxCategory
	}
	if tx.MatchedOrderID != nil {
		resp.MatchedOrderID = tx.MatchedOrderID.String()
	}
	return resp
}

func mapCandidateToResponse(cand *reconciliation.Candidate) CandidateResponse {
	resp := CandidateResponse{
		ID:            cand.ID.String(),
		TransactionID: cand.TransactionID.String(),
		OrderID:       cand.OrderID.String(),
		Confidence:    cand.Confidence,
		Status:        string(cand.Status),
		CreatedAt:     cand.CreatedAt.Format(time.RFC3339),
	}
	if cand.ReviewedAt != nil {
		resp.ReviewedAt = cand.ReviewedAt.Format(time.RFC3339)
	}
	return resp
}
