// Package api is a typed HTTP client for the LibStack backend REST API.
//
// Every call carries the backend session cookie of the user it acts for;
// the package holds no state beyond the base URL and the http.Client.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const basePath = "/api/v1"

// Client represents an HTTP client for the LibStack backend API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client for the given backend base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetHTTPClient sets a custom HTTP client
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// BaseURL returns the configured backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Error is a backend-declared failure: the response status plus the message
// field from the error body, when one was present.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("backend request failed (status %d): %s", e.Status, e.Message)
}

// IsUnauthorized reports whether err is a backend 401 rejection
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// ErrorMessage extracts the backend message from err, falling back to the
// given generic message when err carries none.
func ErrorMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// Page is the backend's paginated response shape
type Page[T any] struct {
	Content       []T   `json:"content"`
	Number        int   `json:"number"`
	TotalPages    int   `json:"totalPages"`
	TotalElements int64 `json:"totalElements"`
}

// do performs a backend request under basePath and decodes the JSON
// response into out (when out is non-nil). Non-2xx responses are returned
// as *Error.
func (c *Client) do(ctx context.Context, method, path, cookie string, query url.Values, body, out any) error {
	endpoint := c.baseURL + basePath + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// decodeError builds an *Error from a non-2xx response, using the body's
// message field opportunistically.
func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}

	data, err := io.ReadAll(resp.Body)
	if err == nil && len(data) > 0 {
		var body struct {
			Message string `json:"message"`
			ErrMsg  string `json:"error"`
		}
		if json.Unmarshal(data, &body) == nil {
			if body.Message != "" {
				apiErr.Message = body.Message
			} else if body.ErrMsg != "" {
				apiErr.Message = body.ErrMsg
			}
		}
	}

	return apiErr
}
