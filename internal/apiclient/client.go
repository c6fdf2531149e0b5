// Package apiclient talks to the console's two backends: the primary API
// (auth, users, documents, ingestion) and the Q&A service.
//
// Every request is authorised from the persisted token, read afresh per request,
// so a token renewed mid-session is used without rebuilding the client. A 401
// response purges the persisted token and is announced to subscribers as an
// UnauthorizedEvent; the client itself never navigates.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/me/jarvis/internal/store"
)

// ValidatePath is the token re-validation endpoint on the primary backend.
const ValidatePath = "/auth/validate-token"

// ErrNetwork marks failures where no HTTP response was received.
var ErrNetwork = errors.New("network error")

// UnauthorizedEvent describes a request the backend answered with 401.
type UnauthorizedEvent struct {
	Method string
	Path   string
	// ValidationCall is true when the failing request was itself a token validation.
	ValidationCall bool
}

// UnauthorizedFunc receives UnauthorizedEvents.
type UnauthorizedFunc func(UnauthorizedEvent)

// HTTPError is a non-2xx response from a backend.
type HTTPError struct {
	StatusCode int
	Message    string // backend-supplied message, if any
	Body       []byte
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("status %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.StatusCode
	}
	return 0
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool { return StatusCode(err) == http.StatusUnauthorized }

// IsForbidden reports whether err is a 403 response.
func IsForbidden(err error) bool { return StatusCode(err) == http.StatusForbidden }

// Message extracts the backend's message from err, falling back to err.Error().
// Returns "" for a nil error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var he *HTTPError
	if errors.As(err, &he) && he.Message != "" {
		return he.Message
	}
	return err.Error()
}

// Client is an HTTP client for one backend origin.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     *slog.Logger

	tokens store.TokenStorage

	mu        sync.RWMutex
	nextID    int
	listeners map[int]UnauthorizedFunc
}

// New creates a client for baseURL that authorises requests from tokens.
func New(baseURL string, tokens store.TokenStorage, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Logger:     logger.With("component", "apiclient", "base_url", baseURL),
		tokens:     tokens,
		listeners:  make(map[int]UnauthorizedFunc),
	}
}

// OnUnauthorized subscribes fn to 401 responses. The returned func unsubscribes.
func (c *Client) OnUnauthorized(fn UnauthorizedFunc) (remove func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// request describes one call.
type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	bearer      string // explicit token; overrides the stored one
}

// do performs a request and decodes a JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, r request, out any) error {
	u := c.BaseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, r.body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	req.Header.Set("Accept", "application/json")

	c.authorize(ctx, req)
	if r.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+r.bearer)
	}

	c.Logger.Debug("HTTP request", "method", r.method, "path", r.path)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Warn("network error", "method", r.method, "path", r.path, "error", err)
		return fmt.Errorf("%w: %s %s: %w", ErrNetwork, r.method, r.path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrNetwork, err)
	}

	c.Logger.Debug("HTTP response", "method", r.method, "path", r.path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		herr := &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody),
			Body:       respBody,
		}
		if resp.StatusCode == http.StatusUnauthorized {
			c.unauthorized(ctx, r.method, r.path)
		}
		return herr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("parse response (status %d): %w", resp.StatusCode, err)
	}
	return nil
}

// authorize attaches the persisted token, if any.
func (c *Client) authorize(ctx context.Context, req *http.Request) {
	tok, err := c.tokens.Token(ctx)
	if err != nil {
		c.Logger.Warn("read token", "error", err)
		return
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}

// unauthorized purges the persisted token and notifies subscribers.
func (c *Client) unauthorized(ctx context.Context, method, path string) {
	ev := UnauthorizedEvent{
		Method:         method,
		Path:           path,
		ValidationCall: strings.Contains(path, ValidatePath),
	}
	if ev.ValidationCall {
		c.Logger.Info("token validation failed, clearing token")
	} else {
		c.Logger.Info("request unauthorized, clearing token", "path", path)
	}

	if err := c.tokens.RemoveToken(context.WithoutCancel(ctx)); err != nil {
		c.Logger.Error("remove token", "error", err)
	}

	c.mu.RLock()
	fns := make([]UnauthorizedFunc, 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// errorMessage pulls "message" (string or list) or "error" out of a JSON error body.
func errorMessage(body []byte) string {
	var payload struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if len(payload.Message) > 0 {
		var s string
		if err := json.Unmarshal(payload.Message, &s); err == nil && s != "" {
			return s
		}
		var list []string
		if err := json.Unmarshal(payload.Message, &list); err == nil && len(list) > 0 {
			return strings.Join(list, "; ")
		}
	}
	return payload.Error
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) sendJSON(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(data)
	}
	return c.do(ctx, request{method: method, path: path, body: rdr, contentType: "application/json"}, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: path}, nil)
}
