// Package client implements the HTTP and SSE transport for the Interactions
// API: single-shot execution, streamed execution with resumption, and the
// persistence operations on stored interactions.
package client

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
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/lumenlabs/interactions-go/interaction"
)

const (
	defaultBaseURL = "https://interactions.lumenlabs.ai"
	apiVersion     = "v1"

	envAPIKey  = "INTERACTIONS_API_KEY"
	envBaseURL = "INTERACTIONS_BASE_URL"
	envDebug   = "INTERACTIONS_DEBUG"
)

// Client executes requests against the Interactions API. It classifies
// failures as retryable or not but never retries on its own.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	codec      *interaction.Codec
	logger     *slog.Logger
	debug      bool
}

// Option configures the client.
type Option func(*Client)

// WithAPIKey sets the API key. Defaults to the INTERACTIONS_API_KEY
// environment variable.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithBaseURL sets a custom base URL. Defaults to the INTERACTIONS_BASE_URL
// environment variable, then the production endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each network call. For single-shot calls it is the
// total request timeout; for streams it is the stall timeout between
// consecutive events.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the structured logger for warnings and debug output.
// Defaults to slog.Default(). Authentication material is never logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
		c.codec.Logger = l
	}
}

// WithStrictDecoding makes unrecognized wire discriminants hard decode
// failures instead of preserved Unknown values.
func WithStrictDecoding() Option {
	return func(c *Client) { c.codec.Strict = true }
}

// WithDebug enables wire inspection: every outbound body and inbound
// payload is logged at debug level with large binary fields truncated.
// Also enabled by INTERACTIONS_DEBUG=1.
func WithDebug(enabled bool) Option {
	return func(c *Client) { c.debug = enabled }
}

// New creates a client.
//
// Example:
//
//	c, err := client.New(client.WithAPIKey(key))
//	if err != nil {
//	    return err
//	}
//	resp, err := c.Create(ctx, req)
func New(opts ...Option) (*Client, error) {
	c := &Client{
		httpClient: http.DefaultClient,
		codec:      &interaction.Codec{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		c.apiKey = os.Getenv(envAPIKey)
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("API key required: set %s or use WithAPIKey", envAPIKey)
	}
	if c.baseURL == "" {
		c.baseURL = os.Getenv(envBaseURL)
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.logger == nil {
		c.logger = slog.Default()
		c.codec.Logger = c.logger
	}
	if v := os.Getenv(envDebug); v == "1" || v == "true" {
		c.debug = true
	}
	return c, nil
}

// Codec returns the codec this client decodes with.
func (c *Client) Codec() *interaction.Codec {
	return c.codec
}

// Create executes a request single-shot and returns the finished
// interaction.
func (c *Client) Create(ctx context.Context, req *interaction.Request) (*interaction.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	ctx, cancel := c.applyTimeout(ctx, req.Timeout)
	defer cancel()

	u := fmt.Sprintf("%s/%s/interactions", c.baseURL, apiVersion)
	return c.doInteraction(ctx, http.MethodPost, u, body)
}

// Stream executes a request as an incrementally delivered event stream.
// The returned stream must be closed.
func (c *Client) Stream(ctx context.Context, req *interaction.Request) (*Stream, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	u := fmt.Sprintf("%s/%s/interactions?alt=sse", c.baseURL, apiVersion)
	return c.openStream(ctx, http.MethodPost, u, body, c.streamTimeout(req.Timeout))
}

// Resume re-attaches to a stored interaction's event stream. Events
// strictly after lastEventID are replayed; pass an empty lastEventID to
// replay from the beginning. The decoder holds no state across attempts:
// resumption is a property of this request alone.
func (c *Client) Resume(ctx context.Context, id, lastEventID string) (*Stream, error) {
	u := fmt.Sprintf("%s/%s/interactions/%s/events", c.baseURL, apiVersion, url.PathEscape(id))
	if lastEventID != "" {
		u += "?lastEventId=" + url.QueryEscape(lastEventID)
	}
	return c.openStream(ctx, http.MethodGet, u, nil, c.timeout)
}

// Get fetches a stored interaction by identifier.
func (c *Client) Get(ctx context.Context, id string) (*interaction.Response, error) {
	ctx, cancel := c.applyTimeout(ctx, 0)
	defer cancel()

	u := fmt.Sprintf("%s/%s/interactions/%s", c.baseURL, apiVersion, url.PathEscape(id))
	return c.doInteraction(ctx, http.MethodGet, u, nil)
}

// Cancel asks the service to stop a background interaction and returns its
// state after the cancellation request.
func (c *Client) Cancel(ctx context.Context, id string) (*interaction.Response, error) {
	ctx, cancel := c.applyTimeout(ctx, 0)
	defer cancel()

	u := fmt.Sprintf("%s/%s/interactions/%s:cancel", c.baseURL, apiVersion, url.PathEscape(id))
	return c.doInteraction(ctx, http.MethodPost, u, nil)
}

// Delete removes a stored interaction.
func (c *Client) Delete(ctx context.Context, id string) error {
	ctx, cancel := c.applyTimeout(ctx, 0)
	defer cancel()

	u := fmt.Sprintf("%s/%s/interactions/%s", c.baseURL, apiVersion, url.PathEscape(id))
	httpReq, requestID, err := c.newHTTPRequest(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return &TransportError{Op: "delete interaction", Timeout: isTimeout(err), Cause: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != http.StatusOK && httpResp.StatusCode != http.StatusNoContent {
		respBody, _ := io.ReadAll(httpResp.Body)
		return c.parseAPIError(httpResp, respBody, requestID)
	}
	return nil
}

func (c *Client) doInteraction(ctx context.Context, method, u string, body []byte) (*interaction.Response, error) {
	httpReq, requestID, err := c.newHTTPRequest(ctx, method, u, body)
	if err != nil {
		return nil, err
	}

	c.logOutbound(requestID, body)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: "interaction call", Timeout: isTimeout(err), Cause: err}
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Op: "interaction call", Timeout: isTimeout(err), Cause: err}
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, c.parseAPIError(httpResp, respBody, requestID)
	}

	c.logInbound(requestID, respBody)

	return c.codec.DecodeResponse(respBody)
}

func (c *Client) openStream(ctx context.Context, method, u string, body []byte, stall time.Duration) (*Stream, error) {
	httpReq, requestID, err := c.newHTTPRequest(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "text/event-stream")

	c.logOutbound(requestID, body)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Op: "open stream", Timeout: isTimeout(err), Cause: err}
	}

	if httpResp.StatusCode != http.StatusOK {
		defer func() { _ = httpResp.Body.Close() }()
		respBody, _ := io.ReadAll(httpResp.Body)
		return nil, c.parseAPIError(httpResp, respBody, requestID)
	}

	return newStream(httpResp.Body, c.codec, c.logger, c.debug, requestID, stall), nil
}

func (c *Client) newHTTPRequest(ctx context.Context, method, u string, body []byte) (*http.Request, string, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("X-Request-Id", requestID)
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	return httpReq, requestID, nil
}

// applyTimeout layers the per-request or client timeout onto ctx for unary
// calls.
func (c *Client) applyTimeout(ctx context.Context, perRequest time.Duration) (context.Context, context.CancelFunc) {
	d := perRequest
	if d == 0 {
		d = c.timeout
	}
	if d == 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}

func (c *Client) streamTimeout(perRequest time.Duration) time.Duration {
	if perRequest != 0 {
		return perRequest
	}
	return c.timeout
}

func (c *Client) parseAPIError(httpResp *http.Response, body []byte, requestID string) error {
	apiErr := &APIError{
		StatusCode: httpResp.StatusCode,
		Message:    string(body),
		RequestID:  requestID,
	}

	var wire struct {
		Error interaction.ErrorDetail `json:"error"`
	}
	if err := json.Unmarshal(body, &wire); err == nil && wire.Error.Message != "" {
		apiErr.Code = wire.Error.Code
		apiErr.Status = wire.Error.Status
		apiErr.Message = wire.Error.Message
	}

	if ra := httpResp.Header.Get("Retry-After"); ra != "" {
		if secs, err := strconv.Atoi(ra); err == nil {
			apiErr.RetryAfter = time.Duration(secs) * time.Second
		}
	}
	return apiErr
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	if errors.As(err, &t) && t.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
