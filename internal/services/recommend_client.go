package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/liamwears/moviecards/internal/models"
)

// DefaultRecommendCount is the number of movies asked for when the caller passes no count
const DefaultRecommendCount = 3

// ErrInvalidRequest is returned when a request fails validation before it is sent
var ErrInvalidRequest = errors.New("invalid recommendation request")

// TransportError reports a backend call that could not complete or returned a non-success status
type TransportError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: backend returned status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RecommendClient talks to the recommendation backend
type RecommendClient struct {
	client    *http.Client
	baseURL   string
	validator *validator.Validate
}

// RecommendClientConfig holds recommendation client configuration
type RecommendClientConfig struct {
	BaseURL string
	Timeout time.Duration
}

// NewRecommendClient creates a new recommendation backend client
func NewRecommendClient(cfg RecommendClientConfig) *RecommendClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}

	return &RecommendClient{
		client: &http.Client{
			Timeout: timeout,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		validator: validator.New(),
	}
}

// Recommend submits a prompt to POST /api/recommend.
// A count below 1 asks for DefaultRecommendCount movies.
func (c *RecommendClient) Recommend(ctx context.Context, prompt string, count int) (*models.RecommendationResult, error) {
	if count < 1 {
		count = DefaultRecommendCount
	}

	req := models.RecommendRequest{
		Prompt: strings.TrimSpace(prompt),
		Count:  count,
	}
	if err := c.validator.StructCtx(ctx, req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	body, err := c.doRequest(ctx, "recommend", http.MethodPost, "/api/recommend", payload)
	if err != nil {
		return nil, err
	}

	var result models.RecommendationResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &TransportError{Op: "recommend", Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}
	if err := c.validator.StructCtx(ctx, result); err != nil {
		return nil, &TransportError{Op: "recommend", Err: fmt.Errorf("invalid response: %w", err)}
	}

	return &result, nil
}

// History fetches every past query from GET /api/history
func (c *RecommendClient) History(ctx context.Context) ([]models.HistoryItem, error) {
	body, err := c.doRequest(ctx, "history", http.MethodGet, "/api/history", nil)
	if err != nil {
		return nil, err
	}

	var items []models.HistoryItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &TransportError{Op: "history", Err: fmt.Errorf("failed to unmarshal response: %w", err)}
	}

	return items, nil
}

// doRequest performs exactly one HTTP request to the backend and returns the response body
func (c *RecommendClient) doRequest(ctx context.Context, op, method, endpoint string, payload []byte) ([]byte, error) {
	url := c.baseURL + endpoint

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to execute request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("body: %s", truncateBody(body))}
	}

	return body, nil
}

func truncateBody(body []byte) string {
	const limit = 256
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
