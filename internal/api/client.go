package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"ricepro-web/internal/metrics"
)

const (
	DefaultTimeout = 15 * time.Second

	// maxResponseBytes caps what we read from the backend for one call.
	maxResponseBytes = 4 << 20
)

// TokenSource yields the bearer token of the current session, if any.
// It is consulted on every dispatch so sign-in and sign-out take effect
// on the very next request.
type TokenSource func(ctx context.Context) (string, bool)

// Client dispatches requests to the rice backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

// NewClient creates a client for baseURL. tokens may be nil for
// unauthenticated use.
func NewClient(baseURL string, timeout time.Duration, tokens TokenSource) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
	}
}

// WithTokens returns a client sharing the connection pool but reading
// tokens from ts.
func (c *Client) WithTokens(ts TokenSource) *Client {
	clone := *c
	clone.tokens = ts
	return &clone
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) Inventory() *InventoryClient { return &InventoryClient{c: c} }
func (c *Client) Customers() *CustomersClient { return &CustomersClient{c: c} }
func (c *Client) Orders() *OrdersClient       { return &OrdersClient{c: c} }
func (c *Client) Payments() *PaymentsClient   { return &PaymentsClient{c: c} }
func (c *Client) Reports() *ReportsClient     { return &ReportsClient{c: c} }
func (c *Client) Auth() *AuthClient           { return &AuthClient{c: c} }
func (c *Client) System() *SystemClient       { return &SystemClient{c: c} }

// do sends one request and decodes a 2xx JSON body into out (when non-nil).
// Every failure is returned as a *RequestFailure.
func (c *Client) do(ctx context.Context, resource, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", resource, err)
		}
		reader = bytes.NewReader(payload)
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token, ok := c.tokens(ctx); ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(resource, "0").Inc()
		return &RequestFailure{Message: "Unable to reach the server", Err: err}
	}
	defer resp.Body.Close()
	metrics.BackendRequestsTotal.WithLabelValues(resource, strconv.Itoa(resp.StatusCode)).Inc()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &RequestFailure{StatusCode: resp.StatusCode, Message: "Failed to read server response", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newRequestFailure(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RequestFailure{StatusCode: resp.StatusCode, Message: "Unexpected response from server", Err: err}
	}
	return nil
}
