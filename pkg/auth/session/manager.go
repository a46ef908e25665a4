package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Kobby-jnrr/kstore-backend/pkg/config"
)

// AccessSessionChecker verifies that the session referenced by a token is
// still live. The identity service owns session creation; this side only
// reads and revokes.
type AccessSessionChecker interface {
	HasSession(ctx context.Context, sessionID string) (bool, error)
}

type store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(sessionID string) string
}

// Manager tracks access sessions in redis keyed by JWT ID.
type Manager struct {
	store store
	ttl   time.Duration
}

// NewManager builds a session manager from the shared redis client.
func NewManager(store store, cfg config.JWTConfig) (*Manager, error) {
	if store == nil {
		return nil, errors.New("redis store required")
	}
	if cfg.ExpirationMinutes <= 0 {
		return nil, errors.New("jwt expiration must be positive")
	}
	return &Manager{
		store: store,
		ttl:   time.Duration(cfg.ExpirationMinutes) * time.Minute,
	}, nil
}

// Register records a live session for the given JWT ID.
func (m *Manager) Register(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.New("session id required")
	}
	if err := m.store.Set(ctx, m.store.SessionKey(sessionID), "1", m.ttl); err != nil {
		return fmt.Errorf("register session: %w", err)
	}
	return nil
}

// HasSession reports whether the session is still live.
func (m *Manager) HasSession(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	return m.store.Exists(ctx, m.store.SessionKey(sessionID))
}

// Revoke terminates the session, used by logout.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return m.store.Del(ctx, m.store.SessionKey(sessionID))
}
