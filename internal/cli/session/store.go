// Package session holds the client's bearer token.
//
// A Store is the single owner of the token for a process. It is created once
// from durable Storage and handed to every consumer (API client, access guard,
// commands); nothing else mutates the token.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Store is the single source of truth for the current auth token
type Store struct {
	mu         sync.RWMutex
	token      string
	rememberMe bool
	storage    Storage
	logger     zerolog.Logger
}

// Open creates a Store seeded from durable storage. A missing token
// yields an unauthenticated store, not an error.
func Open(storage Storage, logger zerolog.Logger) (*Store, error) {
	s := &Store{
		storage: storage,
		logger:  logger.With().Str("component", "session").Logger(),
	}

	token, err := storage.Load()
	switch {
	case errors.Is(err, ErrNoToken):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	s.token = token
	s.rememberMe = true
	s.logger.Debug().Msg("Restored session from durable storage")
	return s, nil
}

// Token returns the current in-memory token, or "" when logged out
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Authenticated reports whether a token is present
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// RememberMe reports whether the current token is persisted
func (s *Store) RememberMe() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rememberMe
}

// SetToken replaces the session token. Any previously persisted token is
// removed first; the new one is persisted only when rememberMe is set and the
// token is non-empty. The in-memory token is updated even when storage fails.
func (s *Store) SetToken(token string, rememberMe bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.rememberMe = rememberMe && token != ""

	if err := s.storage.Delete(); err != nil {
		return fmt.Errorf("failed to clear stored token: %w", err)
	}

	if !s.rememberMe {
		s.logger.Debug().Bool("authenticated", token != "").Msg("Session updated (memory only)")
		return nil
	}

	if err := s.storage.Save(token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	s.logger.Debug().Msg("Session updated and persisted")
	return nil
}

// Clear logs the session out
func (s *Store) Clear() error {
	return s.SetToken("", false)
}
