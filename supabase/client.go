// ABOUTME: HTTP client for the hosted backend (GoTrue auth and PostgREST rows)
// ABOUTME: Holds the signed-in session and authorizes row requests with its bearer token
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"

	"github.com/harperreed/pitch/auth"
	"github.com/harperreed/pitch/logging"
)

type Client struct {
	baseURL string
	anonKey string

	// plain is used for auth endpoints; rest adds the session bearer token.
	plain  *http.Client
	rest   *http.Client
	logger *log.Logger
	tokens TokenStore
	now    func() time.Time

	mu      sync.Mutex
	token   *oauth2.Token
	loaded  bool
	ident   *auth.Identity
	nextID  int
	changes map[int]func(*auth.Identity)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.plain = hc }
}

func WithLogger(l *log.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTokenStore persists the session between runs.
func WithTokenStore(ts TokenStore) Option {
	return func(c *Client) { c.tokens = ts }
}

func New(baseURL, anonKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		plain:   &http.Client{Timeout: 30 * time.Second},
		tokens:  memoryStore{},
		now:     time.Now,
		changes: make(map[int]func(*auth.Identity)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.OrDiscard(c.logger)
	c.rest = &http.Client{
		Timeout:   c.plain.Timeout,
		Transport: &oauth2.Transport{Source: tokenSource{c}, Base: c.plain.Transport},
	}
	return c
}

// APIError is a non-2xx response from the backend.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned HTTP %d", e.Status)
	}
	return fmt.Sprintf("backend returned HTTP %d: %s", e.Status, e.Message)
}

type request struct {
	method string
	path   string
	query  url.Values
	body   any
	prefer string
	bearer string
}

func (c *Client) do(ctx context.Context, hc *http.Client, r request, out any) error {
	var body io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.prefer != "" {
		req.Header.Set("Prefer", r.prefer)
	}
	if r.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+r.bearer)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseAPIError understands both GoTrue and PostgREST error bodies.
func parseAPIError(status int, data []byte) *APIError {
	var body struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		ErrorCode        string `json:"error_code"`
		Code             string `json:"code"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
	}
	apiErr := &APIError{Status: status}
	if json.Unmarshal(data, &body) != nil {
		apiErr.Message = strings.TrimSpace(string(data))
		return apiErr
	}

	apiErr.Code = firstNonEmpty(body.ErrorCode, body.Code, body.Error)
	apiErr.Message = firstNonEmpty(body.ErrorDescription, body.Msg, body.Message, body.Error)
	return apiErr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
