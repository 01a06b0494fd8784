// Package api submits validated fields to the remote field-creation
// endpoint, one field per request, with a fixed pre-request delay to stay
// under the endpoint's rate limit.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fieldimport/internal/field"
)

// DefaultSubmitDelay is the fixed wait before every request. It is paid
// unconditionally, including on the first call of a run.
const DefaultSubmitDelay = 500 * time.Millisecond

// bodyReadFailed stands in for the response body when it cannot be read;
// a failed body read must not mask the original HTTP failure.
const bodyReadFailed = "failed to get error response"

// SubmitError reports a non-2xx response from the field-creation endpoint.
type SubmitError struct {
	Label      string
	StatusCode int
	Body       string
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("failed to create field %q: status %d: %s", e.Label, e.StatusCode, e.Body)
}

// Client posts single fields to the field-creation endpoint. It performs no
// retries; retry policy belongs to the caller.
type Client struct {
	http     *http.Client
	endpoint string
	delay    time.Duration
}

// NewClient creates a submission client for the given endpoint URL.
// A delay of zero falls back to DefaultSubmitDelay.
func NewClient(httpClient *http.Client, endpoint string, delay time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if delay <= 0 {
		delay = DefaultSubmitDelay
	}
	return &Client{
		http:     httpClient,
		endpoint: endpoint,
		delay:    delay,
	}
}

// CreateField submits one field using the given Authorization header value.
// The endpoint requires an array body even for a single record. Any 2xx
// status is success regardless of body; any other status is a *SubmitError
// carrying the field label, status, and response body.
func (c *Client) CreateField(ctx context.Context, f field.Field, authHeader string) error {
	// Unconditional rate-limit delay before every request.
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.delay):
	}

	payload, err := json.Marshal([]field.Payload{f.Payload()})
	if err != nil {
		return fmt.Errorf("marshal field payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("submit field %q: %w", f.Label, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body := bodyReadFailed
	if data, readErr := io.ReadAll(resp.Body); readErr == nil {
		body = string(data)
	}

	return &SubmitError{
		Label:      f.Label,
		StatusCode: resp.StatusCode,
		Body:       body,
	}
}
