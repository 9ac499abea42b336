package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/ledgermind/categorization-engine/internal/config"
	"github.com/ledgermind/categorization-engine/internal/domain/question"
	"github.com/ledgermind/categorization-engine/internal/domain/shared"
	"github.com/ledgermind/categorization-engine/internal/domain/transaction"
)

// HTTPClient implements Classifier against the classification service's
// HTTP API. Transient failures (network errors, 5xx) are retried a bounded
// number of times with exponential backoff; 4xx responses are permanent and
// fail immediately.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	model      string
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates a classifier client from configuration.
func NewHTTPClient(logger *slog.Logger, cfg *config.ClassifierConfig) *HTTPClient {
	return &HTTPClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelay,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type classifyRequest struct {
	Model        string                `json:"model"`
	UserID       uuid.UUID             `json:"user_id"`
	Transactions []classifyTransaction `json:"transactions"`
}

type classifyTransaction struct {
	ID          uuid.UUID `json:"id"`
	Date        time.Time `json:"date"`
	AmountMinor int64     `json:"amount_minor"`
	Currency    string    `json:"currency"`
	Merchant    string    `json:"merchant"`
	Description string    `json:"description"`
}

type classifyResponse struct {
	Results []Result `json:"results"`
}

// Classify submits one batch. On any failure the caller treats the whole
// batch as failed and mutates nothing.
func (c *HTTPClient) Classify(ctx context.Context, userID uuid.UUID, transactions []*transaction.Transaction) ([]Result, error) {
	reqBody := classifyRequest{
		Model:        c.model,
		UserID:       userID,
		Transactions: make([]classifyTransaction, 0, len(transactions)),
	}
	for _, tx := range transactions {
		reqBody.Transactions = append(reqBody.Transactions, classifyTransaction{
			ID:          tx.ID,
			Date:        tx.Date,
			AmountMinor: tx.AmountMinor,
			Currency:    tx.Currency,
			Merchant:    tx.MerchantName,
			Description: tx.Description,
		})
	}

	var resp classifyResponse
	if err := c.postWithRetry(ctx, "/v1/classify", reqBody, &resp); err != nil {
		return nil, shared.ExternalServiceError{Operation: "classify", Err: err}
	}

	c.logger.Debug("Classifier batch returned",
		"user_id", userID.String(),
		"sent", len(transactions),
		"received", len(resp.Results),
	)

	return resp.Results, nil
}

type interpretRequest struct {
	Model        string              `json:"model"`
	QuestionText string              `json:"question_text"`
	QuestionType string              `json:"question_type"`
	Options      []string            `json:"options"`
	Answer       string              `json:"answer"`
	Transaction  classifyTransaction `json:"transaction"`
}

// InterpretAnswer asks the service for a suggested reading of a free-text
// answer. The suggestion is never committed here.
func (c *HTTPClient) InterpretAnswer(ctx context.Context, q *question.Question, tx *transaction.Transaction, rawAnswer string) (*Interpretation, error) {
	reqBody := interpretRequest{
		Model:        c.model,
		QuestionText: q.Text,
		QuestionType: string(q.Type),
		Options:      q.Options,
		Answer:       rawAnswer,
		Transaction: classifyTransaction{
			ID:          tx.ID,
			Date:        tx.Date,
			AmountMinor: tx.AmountMinor,
			Currency:    tx.Currency,
			Merchant:    tx.MerchantName,
			Description: tx.Description,
		},
	}

	var interp Interpretation
	if err := c.postWithRetry(ctx, "/v1/interpret", reqBody, &interp); err != nil {
		return nil, shared.ExternalServiceError{Operation: "interpret", Err: err}
	}

	return &interp, nil
}

// postWithRetry posts JSON and decodes the response, retrying transient
// failures up to maxRetries times with exponential backoff.
func (c *HTTPClient) postWithRetry(ctx context.Context, path string, reqBody, respBody interface{}) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			c.logger.Warn("Retrying classifier call",
				"path", path,
				"attempt", attempt,
				"max_retries", c.maxRetries,
				"delay", delay.String(),
				"error", lastErr,
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		retryable, err := c.post(ctx, path, payload, respBody)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable {
			return err
		}
	}

	return fmt.Errorf("exhausted %d retries: %w", c.maxRetries, lastErr)
}

// post performs a single HTTP round trip. The boolean reports whether the
// failure is transient and worth retrying.
func (c *HTTPClient) post(ctx context.Context, path string, payload []byte, respBody interface{}) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return false, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Network error or timeout
		return true, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return true, fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
		return false, fmt.Errorf("failed to decode response: %w", err)
	}

	return false, nil
}
