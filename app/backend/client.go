package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrorKind classifies a failed backend call
type ErrorKind string

const (
	ErrTransport ErrorKind = "transport-failure" // Network or request build error
	ErrServer    ErrorKind = "server-rejected"   // Non-2xx status or logical success=false
	ErrDecode    ErrorKind = "decode-failure"    // Payload did not match the expected shape
)

// Error is the only error type returned by Client methods. Callers branch on
// Kind; Message is safe to show to the user.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Client talks to the remote restaurant API and normalizes its responses.
// The remote mixes camelCase and snake_case field names freely; every read
// goes through the mappers in this package so the rest of the app only ever
// sees the canonical shapes in app/models.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client. Any trailing slash on baseURL is
// stripped so paths can always start with "/".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// BaseURL returns the normalized base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// extractErrorMessage pulls a human-readable message out of an error payload.
// The backend uses either "error" or "detail" depending on the endpoint.
func extractErrorMessage(payload any, fallback string) string {
	m, ok := payload.(map[string]any)
	if !ok {
		return fallback
	}
	if msg, ok := m["error"].(string); ok && msg != "" {
		return msg
	}
	if msg, ok := m["detail"].(string); ok && msg != "" {
		return msg
	}
	return fallback
}

// do executes one request and returns the decoded, envelope-unwrapped
// payload. A body that is not valid JSON decodes to nil rather than failing:
// delete endpoints legitimately return no body. A 200 response carrying a
// {success:false} envelope is still a server rejection.
func (c *Client) do(ctx context.Context, method, path string, body any) (any, *Error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, newError(ErrTransport, fmt.Sprintf("error encoding request: %v", err))
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, newError(ErrTransport, fmt.Sprintf("error creating request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = "Network request failed"
		}
		return nil, newError(ErrTransport, msg)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(ErrTransport, fmt.Sprintf("error reading response: %v", err))
	}

	var payload any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			payload = nil
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		fallback := fmt.Sprintf("Request failed with status %d", resp.StatusCode)
		return nil, newError(ErrServer, extractErrorMessage(payload, fallback))
	}

	// Unwrap the {success, data, error} envelope when present. The HTTP
	// status is not authoritative: a 200 can carry a logical failure.
	if m, ok := payload.(map[string]any); ok {
		if success, ok := m["success"].(bool); ok {
			if !success {
				return nil, newError(ErrServer, extractErrorMessage(m, "Request failed"))
			}
			return m["data"], nil
		}
	}

	return payload, nil
}

// get is a convenience wrapper for body-less reads
func (c *Client) get(ctx context.Context, path string) (any, *Error) {
	return c.do(ctx, http.MethodGet, path, nil)
}
