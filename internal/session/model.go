package session

import (
	"time"

	"github.com/oklog/ulid/v2"
	"gorm.io/gorm"

	"github.com/libstack-dev/libstack/internal/api"
)

// BaseModel provides common fields and an auto-generated ULID primary key
type BaseModel struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(26)"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// BeforeCreate generates a ULID for the ID field if it's empty
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	return nil
}

// Config is the gateway's singleton configuration row. The cookie signing
// secret is generated on first run and persisted here.
type Config struct {
	BaseModel
	CookieSecret string `json:"-" gorm:"type:varchar(64);not null"`
}

// Session is one browser's gateway session. It owns the backend session
// cookie and a cached copy of the identity the backend resolved for it.
// Only the Store writes these rows.
type Session struct {
	BaseModel
	BackendCookie string `json:"-" gorm:"type:text"`

	// Resolved flips to true after the single initial identity resolution
	// and never flips back for the lifetime of the session.
	Resolved bool `json:"resolved" gorm:"not null;default:false"`

	UserID       string `json:"user_id"`
	UserName     string `json:"user_name"`
	UserEmail    string `json:"user_email"`
	UserRole     string `json:"user_role"`
	UserProvider string `json:"user_provider"`

	LastSeenAt time.Time `json:"last_seen_at" gorm:"autoUpdateTime"`
}

// Identity returns the cached identity, or nil when no user is bound
func (s *Session) Identity() *api.User {
	if s.UserID == "" {
		return nil
	}
	return &api.User{
		ID:       s.UserID,
		Name:     s.UserName,
		Email:    s.UserEmail,
		Role:     s.UserRole,
		Provider: s.UserProvider,
	}
}

func (s *Session) setIdentity(user *api.User) {
	s.UserID = user.ID
	s.UserName = user.Name
	s.UserEmail = user.Email
	s.UserRole = user.Role
	s.UserProvider = user.Provider
}

func (s *Session) clearIdentity() {
	s.UserID = ""
	s.UserName = ""
	s.UserEmail = ""
	s.UserRole = ""
	s.UserProvider = ""
}

// State is the authorization-relevant view of a session: who is logged in,
// and whether the initial resolution is still pending.
type State struct {
	User    *api.User
	Loading bool
}

// State returns the session's current authorization state
func (s *Session) State() State {
	return State{
		User:    s.Identity(),
		Loading: !s.Resolved,
	}
}

// AutoMigrate runs database migrations for all session store models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Config{}, &Session{})
}
