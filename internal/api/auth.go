package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// User roles as reported by the backend
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents an authenticated identity returned by the backend
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Provider string `json:"provider,omitempty"`
}

// IsAdmin reports whether the user carries the ADMIN role
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CurrentUser resolves the identity bound to the given backend session
// cookie. A 401 comes back as *Error; callers treat it as "no session".
func (c *Client) CurrentUser(ctx context.Context, cookie string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/user", cookie, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates with email and password. On success it returns the
// identity together with the backend session cookie to carry on subsequent
// calls.
func (c *Client) Login(ctx context.Context, email, password string) (*User, string, error) {
	return c.authenticate(ctx, "/auth/login", LoginRequest{Email: email, Password: password})
}

// Register creates an account and, on success, returns the new identity
// and its backend session cookie.
func (c *Client) Register(ctx context.Context, name, email, password string) (*User, string, error) {
	return c.authenticate(ctx, "/auth/register", RegisterRequest{Name: name, Email: email, Password: password})
}

func (c *Client) authenticate(ctx context.Context, path string, body any) (*User, string, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+basePath+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", decodeError(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, "", fmt.Errorf("failed to decode response: %w", err)
	}

	return &user, sessionCookie(resp), nil
}

// Logout invalidates the backend session. Lives at the server root, not
// under the versioned API path.
func (c *Client) Logout(ctx context.Context, cookie string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/logout", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
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

	return nil
}

// OAuthURL returns the backend endpoint that starts the OAuth flow for the
// given provider. Navigating there hands control to the backend entirely.
func (c *Client) OAuthURL(provider string) string {
	return c.baseURL + "/oauth2/authorization/" + provider
}

// sessionCookie collects the session cookies set by an auth response into a
// single Cookie header value.
func sessionCookie(resp *http.Response) string {
	var pairs []string
	for _, ck := range resp.Cookies() {
		pairs = append(pairs, ck.Name+"="+ck.Value)
	}
	return strings.Join(pairs, "; ")
}
