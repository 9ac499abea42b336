package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/domain/reconciliation"
	"github.com/ledgermind/categorization-engine/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReconciliationService struct {
	mock.Mock
}

func (m *MockReconciliationService) ListPending(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*reconciliation.Candidate, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*reconciliation.Candidate), args.Error(1)
}

func (m *MockReconciliationService) Confirm(ctx context.Context, userID, candidateID uuid.UUID) (*reconciliation.Candidate, error) {
	args := m.Called(ctx, userID, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconciliation.Candidate), args.Error(1)
}

func (m *MockReconciliationService) Reject(ctx context.Context, userID, candidateID uuid.UUID) (*reconciliation.Candidate, error) {
	args := m.Called(ctx, userID, candidateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*reconciliation.Candidate), args.Error(1)
}

func TestReconciliationHandler_Confirm(t *testing.T) {
	userID := uuid.New()
	candidateID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockReconciliationService)
		handler := NewReconciliationHandler(testLogger(), mockService)

		now := time.Now()
		confirmed := &reconciliation.Candidate{
			ID:            candidateID,
			UserID:        userID,
			TransactionID: uuid.New(),
			OrderID:       uuid.New(),
			Confidence:    0.92,
			Status:        reconciliation.StatusConfirmed,
			CreatedAt:     now.Add(-time.Hour),
			ReviewedAt:    &now,
		}
		mockService.On("Confirm", mock.Anything, userID, candidateID).Return(confirmed, nil)

		router := setupTestRouter(userID)
		router.POST("/reconciliation/candidates/:id/confirm", handler.Confirm)

		req, _ := http.NewRequest(http.MethodPost, "/reconciliation/candidates/"+candidateID.String()+"/confirm", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var response Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		dataBytes, err := json.Marshal(response.Data)
		require.NoError(t, err)
		var body CandidateResponse
		require.NoError(t, json.Unmarshal(dataBytes, &body))
		assert.Equal(t, "confirmed", body.Status)
		mockService.AssertExpectations(t)
	})

	t.Run("AlreadyReviewed", func(t *testing.T) {
		mockService := new(MockReconciliationService)
		handler := NewReconciliationHandler(testLogger(), mockService)

		mockService.On("Confirm", mock.Anything, userID, candidateID).
			Return(nil, shared.StateConflictError{Resource: "reconciliation candidate", ID: candidateID, Status: "rejected"})

		router := setupTestRouter(userID)
		router.POST("/reconciliation/candidates/:id/confirm", handler.Confirm)

		req, _ := http.NewRequest(http.MethodPost, "/reconciliation/candidates/"+candidateID.String()+"/confirm", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockReconciliationService)
		handler := NewReconciliationHandler(testLogger(), mockService)

		mockService.On("Confirm", mock.Anything, userID, candidateID).
			Return(nil, reconciliation.ErrCandidateNotFound{CandidateID: candidateID})

		router := setupTestRouter(userID)
		router.POST("/reconciliation/candidates/:id/confirm", handler.Confirm)

		req, _ := http.NewRequest(http.MethodPost, "/reconciliation/candidates/"+candidateID.String()+"/confirm", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestReconciliationHandler_Reject(t *testing.T) {
	userID := uuid.New()
	candidateID := uuid.New()

	mockService := new(MockReconciliationService)
	handler := NewReconciliationHandler(testLogger(), mockService)

	now := time.Now()
	rejected := &reconciliation.Candidate{
		ID:            candidateID,
		UserID:        userID,
		TransactionID: uuid.New(),
		OrderID:       uuid.New(),
		Confidence:    0.55,
		Status:        reconciliation.StatusRejected,
		CreatedAt:     now.Add(-time.Hour),
		ReviewedAt:    &now,
	}
	mockService.On("Reject", mock.Anything, userID, candidateID).Return(rejected, nil)

	router := setupTestRouter(userID)
	router.POST("/reconciliation/candidates/:id/reject", handler.Reject)

	req, _ := http.NewRequest(http.MethodPost, "/reconciliation/candidates/"+candidateID.String()+"/reject", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	mockService.AssertExpectations(t)
}

func TestReconciliationHandler_ListPending(t *testing.T) {
	userID := uuid.New()
	mockService := new(MockReconciliationService)
	handler := NewReconciliationHandler(testLogger(), mockService)

	candidates := []*reconciliation.Candidate{
		{
			ID:            uuid.New(),
			UserID:        userID,
			TransactionID: uuid.New(),
			OrderID:       uuid.New(),
			Confidence:    0.92,
			Status:        reconciliation.StatusPending,
			CreatedAt:     time.Now(),
		},
	}
	mockService.On("ListPending", mock.Anything, userID, 20, 0).Return(candidates, nil)

	router := setupTestRouter(userID)
	router.GET("/reconciliation/candidates", handler.ListPending)

	req, _ := http.NewRequest(http.MethodGet, "/reconciliation/candidates", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	mockService.AssertExpectations(t)
}
