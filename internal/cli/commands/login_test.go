package commands

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/libstack-dev/libstack/internal/api"
	"github.com/libstack-dev/libstack/internal/cli/credentials"
)

func TestRunLoginSavesCredentials(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LIBSTACK_SERVER", "")
	t.Setenv("LIBSTACK_EMAIL", "")
	t.Setenv("LIBSTACK_PASSWORD", "")

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/auth/login" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc123"})
		json.NewEncoder(w).Encode(api.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: api.RoleUser})
	}))
	defer backend.Close()

	if err := runLogin(backend.URL, "ada@example.com", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	creds, err := credentials.Load()
	if err != nil {
		t.Fatalf("load credentials: %v", err)
	}
	if creds.BackendURL != backend.URL {
		t.Errorf("unexpected backend url: %s", creds.BackendURL)
	}
	if creds.Cookie != "JSESSIONID=abc123" {
		t.Errorf("unexpected cookie: %s", creds.Cookie)
	}
}

func TestRunLoginRejected(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LIBSTACK_PASSWORD", "")

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid email or password"}`))
	}))
	defer backend.Close()

	err := runLogin(backend.URL, "ada@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "Invalid email or password") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunLoginRequiresEmail(t *testing.T) {
	t.Setenv("LIBSTACK_EMAIL", "")

	err := runLogin("http://localhost:8080", "", "secret")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "email is required") {
		t.Errorf("unexpected error: %v", err)
	}
}
