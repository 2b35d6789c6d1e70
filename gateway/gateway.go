// ABOUTME: Webhook gateway that posts JSON payloads to the automation service
// ABOUTME: Normalizes every outcome into a success/failure envelope, never retries
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/oklog/ulid/v2"

	"github.com/harperreed/pitch/logging"
)

// maxResponseBody caps how much of a webhook response is read (10 MiB).
const maxResponseBody int64 = 10 << 20

// Response is the envelope every gateway call resolves to.
type Response[T any] struct {
	Success bool   `json:"success"`
	Data    *T     `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Err returns the failure as an error, or nil on success.
func (r Response[T]) Err() error {
	if r.Success {
		return nil
	}
	return &Error{Message: r.Error}
}

// Error is a failed gateway call.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return "webhook request failed"
	}
	return e.Message
}

// Client holds no per-call state and is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDiscard(c.logger)
	return c
}

// Call issues exactly one POST of payload to endpoint and decodes the JSON
// body into T. Non-2xx statuses and transport, encode, or decode failures
// all come back as a failed Response.
func Call[T any](ctx context.Context, c *Client, endpoint string, payload any) Response[T] {
	requestID := ulid.Make().String()
	logger := c.logger.With("endpoint", endpoint, "request_id", requestID)

	data, err := c.post(ctx, endpoint, requestID, payload)
	if err != nil {
		logger.Warn("webhook call failed", "err", err)
		return Response[T]{Error: err.Error()}
	}

	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		logger.Warn("webhook response not JSON", "err", err)
		return Response[T]{Error: fmt.Sprintf("invalid response: %v", err)}
	}

	logger.Debug("webhook call succeeded", "bytes", len(data))
	return Response[T]{Success: true, Data: &out}
}

func (c *Client) post(ctx context.Context, endpoint, requestID string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}
