package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound is returned for a missing or expired session token.
var ErrSessionNotFound = errors.New("session not found")

// Session is the authenticated identity carried by a request. It is passed
// explicitly into every operation that needs it; there is no ambient global.
type Session struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// SessionStore persists token -> session mappings with a TTL.
type SessionStore interface {
	SaveSession(ctx context.Context, token string, session *Session, ttl time.Duration) error
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// Manager issues and resolves opaque session tokens.
type Manager struct {
	store SessionStore
	ttl   time.Duration
}

func NewManager(store SessionStore, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create issues a fresh token for the given identity.
func (m *Manager) Create(ctx context.Context, session *Session) (string, error) {
	token := uuid.NewString()
	if err := m.store.SaveSession(ctx, token, session, m.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the identity behind a token, or ErrSessionNotFound.
func (m *Manager) Resolve(ctx context.Context, token string) (*Session, error) {
	return m.store.GetSession(ctx, token)
}

// Destroy invalidates a token. Destroying an unknown token is not an error.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	return m.store.DeleteSession(ctx, token)
}
