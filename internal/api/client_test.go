package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCurrentUserUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/user" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Unauthorized"}`))
	}))
	defer server.Close()

	client := New(server.URL)
	user, err := client.CurrentUser(context.Background(), "")
	if user != nil {
		t.Errorf("expected nil user, got %+v", user)
	}
	if !IsUnauthorized(err) {
		t.Errorf("expected 401 error, got %v", err)
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Message != "Unauthorized" {
		t.Errorf("unexpected message: %s", apiErr.Message)
	}
}

func TestLoginCapturesSessionCookie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/auth/login" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode login body: %v", err)
		}
		if req.Email != "ada@example.com" || req.Password != "secret" {
			t.Errorf("unexpected credentials: %+v", req)
		}

		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc123", Path: "/", HttpOnly: true})
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: RoleUser})
	}))
	defer server.Close()

	client := New(server.URL)
	user, cookie, err := client.Login(context.Background(), "ada@example.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Name != "Ada" || user.Role != RoleUser {
		t.Errorf("unexpected user: %+v", user)
	}
	if cookie != "JSESSIONID=abc123" {
		t.Errorf("unexpected session cookie: %q", cookie)
	}
}

func TestLoginRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid email or password"}`))
	}))
	defer server.Close()

	client := New(server.URL)
	_, _, err := client.Login(context.Background(), "ada@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := ErrorMessage(err, "An error occurred"); got != "Invalid email or password" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestListBooks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/books" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("size") != "12" || q.Get("search") != "tolkien" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if r.Header.Get("Cookie") != "JSESSIONID=abc123" {
			t.Errorf("unexpected cookie header: %q", r.Header.Get("Cookie"))
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Page[Book]{
			Content: []Book{
				{ID: "b1", Title: "The Hobbit", Author: "J.R.R. Tolkien", AvailableStock: 3, Available: true},
			},
			Number:        2,
			TotalPages:    5,
			TotalElements: 53,
		})
	}))
	defer server.Close()

	client := New(server.URL)
	page, err := client.ListBooks(context.Background(), "JSESSIONID=abc123", ListBooksParams{Page: 2, Size: 12, Search: "tolkien"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(page.Content) != 1 || page.Content[0].Title != "The Hobbit" {
		t.Errorf("unexpected content: %+v", page.Content)
	}
	if page.TotalPages != 5 || page.TotalElements != 53 {
		t.Errorf("unexpected page metadata: %+v", page)
	}
}

func TestBorrowErrorPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/loans/borrow/b1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Book is not available for borrowing"}`))
	}))
	defer server.Close()

	client := New(server.URL)
	_, err := client.Borrow(context.Background(), "JSESSIONID=abc123", "b1")
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("unexpected status: %d", apiErr.Status)
	}
	if apiErr.Message != "Book is not available for borrowing" {
		t.Errorf("unexpected message: %q", apiErr.Message)
	}
}

func TestUpdateUserRoleBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/v1/admin/users/u7/role" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var role string
		if err := json.NewDecoder(r.Body).Decode(&role); err != nil {
			t.Fatalf("failed to decode role body: %v", err)
		}
		if role != RoleAdmin {
			t.Errorf("unexpected role: %q", role)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(User{ID: "u7", Role: RoleAdmin})
	}))
	defer server.Close()

	client := New(server.URL)
	if err := client.UpdateUserRole(context.Background(), "JSESSIONID=abc123", "u7", RoleAdmin); err != nil {
		t.Fatalf("update failed: %v", err)
	}
}

func TestErrorMessageFallback(t *testing.T) {
	if got := ErrorMessage(errors.New("dial tcp: connection refused"), "An error occurred"); got != "An error occurred" {
		t.Errorf("expected fallback for plain error, got %q", got)
	}
	if got := ErrorMessage(&Error{Status: 500}, "An error occurred"); got != "An error occurred" {
		t.Errorf("expected fallback for empty message, got %q", got)
	}
}

func TestTimeUnmarshal(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{`"2026-03-15T10:30:00Z"`, time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)},
		{`"2026-03-15T10:30:00"`, time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)},
		{`"2026-03-15T10:30:00.123456789"`, time.Date(2026, 3, 15, 10, 30, 0, 123456789, time.UTC)},
		{`"2026-03-15"`, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
		{`null`, time.Time{}},
	}

	for _, tt := range tests {
		var ts Time
		if err := json.Unmarshal([]byte(tt.input), &ts); err != nil {
			t.Errorf("unmarshal %s: %v", tt.input, err)
			continue
		}
		if !ts.Time.Equal(tt.want) {
			t.Errorf("unmarshal %s = %v, want %v", tt.input, ts.Time, tt.want)
		}
	}

	var ts Time
	if err := json.Unmarshal([]byte(`"not-a-date"`), &ts); err == nil {
		t.Error("expected error for malformed timestamp")
	}
}
