package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/domain/transaction"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) GetByID(ctx context.Context, userID, id uuid.UUID) (*transaction.Transaction, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListByReviewStatus(ctx context.Context, userID uuid.UUID, status transaction.ReviewStatus, page, perPage int) ([]*transaction.Transaction, error) {
	args := m.Called(ctx, userID, status, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Transaction), args.Error(1)
}

func TestTransactionHandler_GetByID(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(testLogger(), mockService)

		tx := confirmedTransaction(userID)
		mockService.On("GetByID", mock.Anything, userID, tx.ID).Return(tx, nil)

		router := setupTestRouter(userID)
		router.GET("/transactions/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/transactions/"+tx.ID.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var response Response
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
		dataBytes, err := json.Marshal(response.Data)
		require.NoError(t, err)
		var body TransactionResponse
		require.NoError(t, json.Unmarshal(dataBytes, &body))
		assert.Equal(t, tx.ID.String(), body.ID)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(testLogger(), mockService)

		id := uuid.New()
		mockService.On("GetByID", mock.Anything, userID, id).
			Return(nil, transaction.ErrTransactionNotFound{TransactionID: id})

		router := setupTestRouter(userID)
		router.GET("/transactions/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/transactions/"+id.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(testLogger(), mockService)

		router := setupTestRouter(userID)
		router.GET("/transactions/:id", handler.GetByID)

		req, _ := http.NewRequest(http.MethodGet, "/transactions/abc", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTransactionHandler_List(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(testLogger(), mockService)

		transactions := []*transaction.Transaction{
			{
				ID:           uuid.New(),
				UserID:       userID,
				Date:         time.Now(),
				AmountMinor:  1250,
				Currency:     "EUR",
				MerchantName: "REWE",
				ExpenseType:  transaction.ExpenseTypePersonal,
				ReviewStatus: transaction.ReviewStatusNeedsReview,
			},
		}
		mockService.On("ListByReviewStatus", mock.Anything, userID, transaction.ReviewStatusNeedsReview, 1, 20).
			Return(transactions, nil)

		router := setupTestRouter(userID)
		router.GET("/transactions", handler.List)

		req, _ := http.NewRequest(http.MethodGet, "/transactions?review_status=needs_review", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("UnknownReviewStatus", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(testLogger(), mockService)

		router := setupTestRouter(userID)
		router.GET("/transactions", handler.List)

		req, _ := http.NewRequest(http.MethodGet, "/transactions?review_status=banana", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockService.AssertNotCalled(t, "ListByReviewStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingReviewStatus", func(t *testing.T) {
		mockService := new(MockTransactionService)
		handler := NewTransactionHandler(testLogger(), mockService)

		router := setupTestRouter(userID)
		router.GET("/transactions", handler.List)

		req, _ := http.NewRequest(http.MethodGet, "/transactions", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
