package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/classifier"
	"github.com/ledgermind/categorization-engine/internal/domain/question"
	"github.com/ledgermind/categorization-engine/internal/domain/transaction"
)

// AnswerResolver resolves pending questions. The engine's resolver
// satisfies this.
type AnswerResolver interface {
	Resolve(ctx context.Context, callerUserID, questionID uuid.UUID, rawAnswer string) (*transaction.Transaction, error)
	Interpret(ctx context.Context, callerUserID, questionID uuid.UUID, rawAnswer string) (*classifier.Interpretation, error)
	ApplyInterpretation(ctx context.Context, callerUserID, questionID uuid.UUID, rawAnswer string, interp *classifier.Interpretation) (*transaction.Transaction, error)
}

// QuestionServiceImpl implements the QuestionService interface
type QuestionServiceImpl struct {
	questions question.Repository
	resolver  AnswerResolver
	logger    *slog.Logger
}

// NewQuestionService creates a new question service
func NewQuestionService(logger *slog.Logger, questions question.Repository, resolver AnswerResolver) *QuestionServiceImpl {
	return &QuestionServiceImpl{
		questions: questions,
		resolver:  resolver,
		logger:    logger,
	}
}

// ListPending retrieves the user's open questions, oldest first
func (s *QuestionServiceImpl) ListPending(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*question.Question, error) {
	questions, err := s.questions.ListPendingByUser(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list pending questions", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list pending questions: %w", err)
	}
	return questions, nil
}

// Answer resolves a pending question with the given answer
func (s *QuestionServiceImpl) Answer(ctx context.Context, userID, questionID uuid.UUID, rawAnswer string) (*transaction.Transaction, error) {
	return s.resolver.Resolve(ctx, userID, questionID, rawAnswer)
}

// Interpret asks the classifier to read a free-text answer without committing
func (s *QuestionServiceImpl) Interpret(ctx context.Context, userID, questionID uuid.UUID, rawAnswer string) (*classifier.Interpretation, error) {
	return s.resolver.Interpret(ctx, userID, questionID, rawAnswer)
}

// ApplyInterpretation commits a previously returned interpretation
func (s *QuestionServiceImpl) ApplyInterpretation(ctx context.Context, userID, questionID uuid.UUID, rawAnswer string, interp *classifier.Interpretation) (*transaction.Transaction, error) {
	return s.resolver.ApplyInterpretation(ctx, userID, questionID, rawAnswer, interp)
}
