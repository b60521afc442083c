package session

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Store persists the bearer token between runs.
type Store interface {
	LoadToken(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
}

// Session carries the bearer credential explicitly to every component that
// talks to the backend.
type Session struct {
	mu    sync.RWMutex
	token string
	store Store
}

// New returns an empty session persisted through store. A nil store keeps
// the token in memory only.
func New(store Store) *Session {
	return &Session{store: store}
}

// FromToken returns an in-memory session holding token.
// Server handlers build one per request from the Authorization header.
func FromToken(token string) *Session {
	return &Session{token: strings.TrimSpace(token)}
}

// FromAuthorization parses an "Authorization: Bearer <token>" header value.
func FromAuthorization(header string) *Session {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return FromToken("")
	}
	return FromToken(token)
}

// Restore loads the persisted token, if any.
func Restore(ctx context.Context, store Store) (*Session, error) {
	s := New(store)
	if store == nil {
		return s, nil
	}
	token, err := store.LoadToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	s.token = token
	return s, nil
}

// Token returns the bearer token, empty when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is present.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token() != ""
}

// Set stores a new token and persists it.
func (s *Session) Set(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if err := s.store.SaveToken(ctx, token); err != nil {
			return fmt.Errorf("failed to persist session: %w", err)
		}
	}
	s.token = token
	return nil
}

// Clear logs the session out.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if err := s.store.ClearToken(ctx); err != nil {
			return fmt.Errorf("failed to clear session: %w", err)
		}
	}
	s.token = ""
	return nil
}
