package session

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/zalando/go-keyring"
)

const (
	DefaultService = "lexicon-cli"
)

// KeyringStorage persists the token in the OS keychain/credential manager
type KeyringStorage struct {
	Service string
	Account string
}

// NewKeyringStorage returns keychain storage with one entry per backend host,
// so tokens issued by different servers never overwrite each other.
func NewKeyringStorage(serverURL string) *KeyringStorage {
	return &KeyringStorage{
		Service: DefaultService,
		Account: accountFor(serverURL),
	}
}

// accountFor returns a unique key for storing tokens per server
func accountFor(serverURL string) string {
	host := serverURL
	if u, err := url.Parse(serverURL); err == nil && u.Host != "" {
		host = u.Host
	}
	return fmt.Sprintf("token-%s", host)
}

// Load retrieves the token from the OS keychain/credential manager
func (k *KeyringStorage) Load() (string, error) {
	token, err := keyring.Get(k.Service, k.Account)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// Save persists the token securely in the OS keychain/credential manager
func (k *KeyringStorage) Save(token string) error {
	if err := keyring.Set(k.Service, k.Account, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// Delete removes the token from the OS keychain/credential manager
func (k *KeyringStorage) Delete() error {
	if err := keyring.Delete(k.Service, k.Account); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
