package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/libstack-dev/libstack/internal/api"
)

func newTestStore(t *testing.T, backendURL string) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))

	return NewStore(db, api.New(backendURL), zerolog.Nop())
}

func TestResolveBindsIdentity(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/user", r.URL.Path)
		require.Equal(t, "JSESSIONID=abc123", r.Header.Get("Cookie"))
		json.NewEncoder(w).Encode(api.User{ID: "u1", Name: "Ada", Email: "ada@example.com", Role: api.RoleAdmin})
	}))
	defer backend.Close()

	store := newTestStore(t, backend.URL)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	assert.True(t, sess.State().Loading)

	sess.BackendCookie = "JSESSIONID=abc123"
	require.NoError(t, store.Resolve(ctx, sess))

	state := sess.State()
	assert.False(t, state.Loading)
	require.NotNil(t, state.User)
	assert.Equal(t, "Ada", state.User.Name)
	assert.True(t, state.User.IsAdmin())

	// Reload from the database: the resolved identity must be persisted.
	loaded, err := store.Find(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Resolved)
	assert.Equal(t, "u1", loaded.UserID)
}

func TestResolveUnauthorizedIsNotAnError(t *testing.T) {
	var calls atomic.Int32
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Unauthorized"}`))
	}))
	defer backend.Close()

	store := newTestStore(t, backend.URL)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	// A 401 means no backend session exists. That is an expected outcome,
	// not a failure.
	require.NoError(t, store.Resolve(ctx, sess))

	state := sess.State()
	assert.Nil(t, state.User)
	assert.False(t, state.Loading)

	// Resolution happens exactly once per session.
	require.NoError(t, store.Resolve(ctx, sess))
	assert.Equal(t, int32(1), calls.Load())
}

func TestResolveBackendUnreachable(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	backend.Close()

	store := newTestStore(t, backend.URL)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, store.Resolve(ctx, sess))
	assert.Nil(t, sess.State().User)
	assert.False(t, sess.State().Loading)
}

func TestLoginBindsIdentityAndCookie(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "xyz789"})
		json.NewEncoder(w).Encode(api.User{ID: "u2", Name: "Bob", Email: "bob@example.com", Role: api.RoleUser})
	}))
	defer backend.Close()

	store := newTestStore(t, backend.URL)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)

	user, err := store.Login(ctx, sess, "bob@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Bob", user.Name)

	loaded, err := store.Find(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "JSESSIONID=xyz789", loaded.BackendCookie)
	assert.Equal(t, "u2", loaded.UserID)
	assert.True(t, loaded.Resolved)
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid email or password"}`))
	}))
	defer backend.Close()

	store := newTestStore(t, backend.URL)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Resolve(ctx, sess))

	_, err = store.Login(ctx, sess, "bob@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", api.ErrorMessage(err, ""))

	loaded, err := store.Find(ctx, sess.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.UserID)
	assert.Empty(t, loaded.BackendCookie)
}

func TestLogoutClearsSessionDespiteBackendFailure(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/logout" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "xyz789"})
		json.NewEncoder(w).Encode(api.User{ID: "u2", Name: "Bob", Email: "bob@example.com", Role: api.RoleUser})
	}))
	defer backend.Close()

	store := newTestStore(t, backend.URL)
	ctx := context.Background()

	sess, err := store.Create(ctx)
	require.NoError(t, err)
	_, err = store.Login(ctx, sess, "bob@example.com", "secret")
	require.NoError(t, err)

	// The backend rejecting the logout must not keep the user logged in
	// locally.
	require.NoError(t, store.Logout(ctx, sess))
	assert.Nil(t, sess.Identity())

	_, err = store.Find(ctx, sess.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCookieRoundTrip(t *testing.T) {
	InitializeCookieSecret("0123456789abcdef0123456789abcdef")

	token, err := IssueCookie("01HZXK5T9GQRS4V8W2Y3M6N7P0", time.Hour)
	require.NoError(t, err)

	id, err := ParseCookie(token)
	require.NoError(t, err)
	assert.Equal(t, "01HZXK5T9GQRS4V8W2Y3M6N7P0", id)

	_, err = ParseCookie("not-a-token")
	assert.Error(t, err)
}
