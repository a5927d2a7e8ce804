// Package session owns the gateway's authentication state: one row per
// browser session, mutated exclusively by the Store.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/libstack-dev/libstack/internal/api"
)

// ErrNotFound is returned when a gateway session id has no backing row
var ErrNotFound = errors.New("session not found")

// Store is the single writer of session rows
type Store struct {
	db     *gorm.DB
	api    *api.Client
	logger zerolog.Logger
}

// NewStore creates a session store backed by the given database and
// backend API client
func NewStore(db *gorm.DB, apiClient *api.Client, logger zerolog.Logger) *Store {
	return &Store{
		db:     db,
		api:    apiClient,
		logger: logger,
	}
}

// Create starts a fresh, unresolved session
func (s *Store) Create(ctx context.Context) (*Session, error) {
	sess := &Session{}
	if err := s.db.WithContext(ctx).Create(sess).Error; err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return sess, nil
}

// Find loads a session by id
func (s *Store) Find(ctx context.Context, id string) (*Session, error) {
	var sess Session
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&sess).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return &sess, nil
}

// Resolve performs the single initial identity resolution for a session:
// one "who am I" call against the backend. Any backend failure, a 401
// included, means "not authenticated" and is not an error. The session
// leaves its loading state either way, and never re-enters it.
func (s *Store) Resolve(ctx context.Context, sess *Session) error {
	if sess.Resolved {
		return nil
	}

	user, err := s.api.CurrentUser(ctx, sess.BackendCookie)
	if err != nil {
		s.logger.Debug().Err(err).Str("session_id", sess.ID).Msg("Session resolution returned no identity")
		sess.clearIdentity()
	} else {
		sess.setIdentity(user)
	}

	sess.Resolved = true
	if err := s.db.WithContext(ctx).Save(sess).Error; err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}
	return nil
}

// Login authenticates against the backend and binds the returned identity
// and backend cookie to the session. Backend failures propagate unchanged
// for the caller to display.
func (s *Store) Login(ctx context.Context, sess *Session, email, password string) (*api.User, error) {
	user, cookie, err := s.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return user, s.bind(ctx, sess, user, cookie)
}

// Register creates a backend account and binds the new identity to the
// session, exactly like Login.
func (s *Store) Register(ctx context.Context, sess *Session, name, email, password string) (*api.User, error) {
	user, cookie, err := s.api.Register(ctx, name, email, password)
	if err != nil {
		return nil, err
	}
	return user, s.bind(ctx, sess, user, cookie)
}

func (s *Store) bind(ctx context.Context, sess *Session, user *api.User, cookie string) error {
	sess.BackendCookie = cookie
	sess.setIdentity(user)
	sess.Resolved = true
	if err := s.db.WithContext(ctx).Save(sess).Error; err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Info().Str("session_id", sess.ID).Str("user_id", user.ID).Msg("User logged in")
	return nil
}

// Logout tells the backend to invalidate its session, then destroys the
// gateway session. A failed backend call is logged and swallowed: the
// local session is cleared no matter what.
func (s *Store) Logout(ctx context.Context, sess *Session) error {
	if err := s.api.Logout(ctx, sess.BackendCookie); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("Backend logout failed")
	}

	sess.clearIdentity()
	sess.BackendCookie = ""

	if err := s.db.WithContext(ctx).Delete(&Session{}, "id = ?", sess.ID).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	s.logger.Info().Str("session_id", sess.ID).Msg("Session destroyed")
	return nil
}

// Touch refreshes the session's last-seen timestamp
func (s *Store) Touch(ctx context.Context, sess *Session) {
	if err := s.db.WithContext(ctx).Model(sess).Update("last_seen_at", time.Now()).Error; err != nil {
		s.logger.Warn().Err(err).Str("session_id", sess.ID).Msg("Failed to touch session")
	}
}
