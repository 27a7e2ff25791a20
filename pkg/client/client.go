// Package client is a Go client for the activity registry HTTP API.
package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "activity-registry/internal/common/errors"
	httpclient "activity-registry/internal/common/http"
)

// Activity mirrors one entry of GET /activities.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// APIError is a non-2xx response from the registry.
type APIError struct {
	StatusCode int
	Code       string
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("registry returned %d %s: %s", e.StatusCode, e.Code, e.Detail)
}

// Is lets callers match against the server sentinels, e.g.
// errors.Is(err, apperrors.ErrCapacityExceeded).
func (e *APIError) Is(target error) bool {
	t, ok := target.(*apperrors.StandardError)
	return ok && string(t.Code) == e.Code
}

type Client struct {
	baseURL string
	http    *httpclient.Client
}

func New(baseURL string, opts ...httpclient.Option) *Client {
	opts = append([]httpclient.Option{httpclient.WithRetry(3, 200*time.Millisecond)}, opts...)
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpclient.NewClient(10*time.Second, opts...),
	}
}

func (c *Client) ListActivities(ctx context.Context) (map[string]Activity, error) {
	var out map[string]Activity
	if err := c.call(ctx, http.MethodGet, "/activities", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Signup returns the confirmation message.
func (c *Client) Signup(ctx context.Context, activity, email string) (string, error) {
	return c.mutate(ctx, http.MethodPost, activity, "signup", email)
}

// Unregister returns the confirmation message.
func (c *Client) Unregister(ctx context.Context, activity, email string) (string, error) {
	return c.mutate(ctx, http.MethodDelete, activity, "unregister", email)
}

func (c *Client) mutate(ctx context.Context, method, activity, action, email string) (string, error) {
	path := fmt.Sprintf("/activities/%s/%s?email=%s", url.PathEscape(activity), action, url.QueryEscape(email))
	var out struct {
		Message string `json:"message"`
	}
	if err := c.call(ctx, method, path, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) call(ctx context.Context, method, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		return err
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var body apperrors.ErrorResponse
		if err := httpclient.DecodeJSON(resp, &body); err != nil {
			return &APIError{StatusCode: resp.StatusCode, Detail: err.Error()}
		}
		return &APIError{StatusCode: resp.StatusCode, Code: body.Code, Detail: body.Detail}
	}
	return httpclient.DecodeJSON(resp, out)
}
