package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/api_gateway/middleware"
	"github.com/ledgermind/categorization-engine/internal/api_gateway/service"
	"github.com/ledgermind/categorization-engine/internal/classifier"
)

// QuestionHandler handles HTTP requests for clarification questions
type QuestionHandler struct {
	questionService service.QuestionService
	logger          *slog.Logger
}

// NewQuestionHandler creates a new question handler
func NewQuestionHandler(logger *slog.Logger, questionService service.QuestionService) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		logger:          logger,
	}
}

// ListPending retrieves the caller's open questions, oldest first
func (h *QuestionHandler) ListPending(c *gin.Context) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	offset := (params.Page - 1) * params.PerPage

	questions, err := h.questionService.ListPending(c.Request.Context(), userID, params.PerPage, offset)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	responses := make([]QuestionResponse, 0, len(questions))
	for _, q := range questions {
		responses = append(responses, mapQuestionToResponse(q))
	}

	RespondWithPage(c, 200, gin.H{"questions": responses}, params.Page, params.PerPage)
}

// Answer resolves a pending question and returns the owning transaction as
// it reads after the confirmation
func (h *QuestionHandler) Answer(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid question ID")
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	userID := middleware.GetUserID(c)

	tx, err := h.questionService.Answer(c.Request.Context(), userID, questionID, req.Answer)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(tx))
}

// Interpret asks the classification service to read a free-text answer
// without committing anything
func (h *QuestionHandler) Interpret(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid question ID")
		return
	}

	var req AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	userID := middleware.GetUserID(c)

	interp, err := h.questionService.Interpret(c.Request.Context(), userID, questionID, req.Answer)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, interp)
}

// ApplyInterpretation commits an interpretation the user accepted
func (h *QuestionHandler) ApplyInterpretation(c *gin.Context) {
	questionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid question ID")
		return
	}

	var req ApplyInterpretationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	userID := middleware.GetUserID(c)
	interp := &classifier.Interpretation{
		Category:      req.Interpretation.Category,
		ExpenseType:   req.Interpretation.ExpenseType,
		TaxDeductible: req.Interpretation.TaxDeductible,
		Confidence:    req.Interpretation.Confidence,
		Explanation:   req.Interpretation.Explanation,
	}

	tx, err := h.questionService.ApplyInterpretation(c.Request.Context(), userID, questionID, req.Answer, interp)
	if err != nil {
		respondDomainError(c, h.logger, err)
		return
	}

	RespondOK(c, mapTransactionToResponse(tx))
}
