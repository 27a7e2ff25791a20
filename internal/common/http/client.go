// internal/common/http/client.go
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	httpClient   *http.Client
	maxRetries   int
	initialDelay time.Duration
}

type Option func(*Client)

// WithRetry retries transport errors and 5xx responses with exponential
// backoff. Only GET and HEAD requests without a body are retried.
func WithRetry(maxRetries int, initialDelay time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
		c.initialDelay = initialDelay
	}
}

// WithHTTPClient swaps the underlying client, e.g. for httptest servers.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxRetries: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxRetries < 1 {
		c.maxRetries = 1
	}
	return c
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.DoWithContext(req.Context(), req)
}

func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	req = req.WithContext(ctx)

	// Only idempotent requests are retried; a resent signup could observe
	// its own first attempt as ALREADY_ENROLLED.
	attempts := 1
	if idempotent(req.Method) && (req.Body == nil || req.Body == http.NoBody) {
		attempts = c.maxRetries
	}

	delay := c.initialDelay
	var lastErr error
	for i := 0; i < attempts; i++ {
		resp, err := c.httpClient.Do(req)
		if err == nil && resp.StatusCode < http.StatusInternalServerError {
			return resp, nil
		}
		if err == nil {
			if i == attempts-1 {
				return resp, nil
			}
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			lastErr = fmt.Errorf("server returned %d", resp.StatusCode)
		} else {
			lastErr = err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", attempts, lastErr)
}

func idempotent(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}

// DecodeJSON reads and closes resp.Body into out.
func DecodeJSON(resp *http.Response, out interface{}) error {
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
