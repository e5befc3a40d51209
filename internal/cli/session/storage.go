package session

import (
	"errors"
	"sync"
)

// ErrNoToken is returned by Storage.Load when no token has been persisted
var ErrNoToken = errors.New("no stored token")

// Storage defines durable token storage.
// This allows us to mock the keyring in tests
type Storage interface {
	Load() (string, error)
	Save(token string) error
	Delete() error
}

// MemoryStorage keeps the token for the lifetime of the value. Two Stores
// opened over the same MemoryStorage behave like two runs on the same machine.
type MemoryStorage struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) Load() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" {
		return "", ErrNoToken
	}
	return m.token, nil
}

func (m *MemoryStorage) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStorage) Delete() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	return nil
}
