package session

import (
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

// failingStorage fails every durable operation
type failingStorage struct{}

func (failingStorage) Load() (string, error) { return "", errors.New("keychain locked") }
func (failingStorage) Save(string) error     { return errors.New("keychain locked") }
func (failingStorage) Delete() error         { return errors.New("keychain locked") }

func openStore(t *testing.T, storage Storage) *Store {
	t.Helper()
	s, err := Open(storage, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func TestOpen_Empty(t *testing.T) {
	s := openStore(t, NewMemoryStorage())

	assert.Equal(t, "", s.Token())
	assert.False(t, s.Authenticated())
	assert.False(t, s.RememberMe())
}

func TestOpen_StorageError(t *testing.T) {
	_, err := Open(failingStorage{}, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open session")
}

func TestSetToken_RememberedSurvivesRestart(t *testing.T) {
	for _, token := range []string{"tok123", "a", "eyJhbGciOiJIUzI1NiJ9.e30.sig"} {
		storage := NewMemoryStorage()
		first := openStore(t, storage)

		require.NoError(t, first.SetToken(token, true))
		assert.Equal(t, token, first.Token())

		restarted := openStore(t, storage)
		assert.Equal(t, token, restarted.Token())
		assert.True(t, restarted.RememberMe())
	}
}

func TestSetToken_NotRememberedIsMemoryOnly(t *testing.T) {
	storage := NewMemoryStorage()
	first := openStore(t, storage)

	require.NoError(t, first.SetToken("tok123", false))
	assert.Equal(t, "tok123", first.Token())

	restarted := openStore(t, storage)
	assert.Equal(t, "", restarted.Token())
}

func TestSetToken_NotRememberedDropsEarlierPersistedToken(t *testing.T) {
	storage := NewMemoryStorage()
	s := openStore(t, storage)

	require.NoError(t, s.SetToken("old", true))
	require.NoError(t, s.SetToken("new", false))

	_, err := storage.Load()
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Equal(t, "new", s.Token())
}

func TestSetToken_EmptyAlwaysClearsStorage(t *testing.T) {
	for _, remember := range []bool{true, false} {
		storage := NewMemoryStorage()
		s := openStore(t, storage)
		require.NoError(t, s.SetToken("tok123", true))

		require.NoError(t, s.SetToken("", remember))

		assert.Equal(t, "", s.Token())
		assert.False(t, s.RememberMe())
		_, err := storage.Load()
		assert.ErrorIs(t, err, ErrNoToken, "rememberMe=%v", remember)
	}
}

func TestSetToken_StorageFailureStillUpdatesMemory(t *testing.T) {
	s := &Store{storage: failingStorage{}, logger: zerolog.Nop(), token: "stale"}

	err := s.Clear()
	require.Error(t, err)
	assert.Equal(t, "", s.Token())
}

func TestStore_ConcurrentClear(t *testing.T) {
	storage := NewMemoryStorage()
	s := openStore(t, storage)
	require.NoError(t, s.SetToken("tok123", true))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Clear()
			_ = s.Token()
		}()
	}
	wg.Wait()

	assert.False(t, s.Authenticated())
	_, err := storage.Load()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestKeyringStorage(t *testing.T) {
	keyring.MockInit()

	storage := NewKeyringStorage("https://words.example.com:8443")
	assert.Equal(t, DefaultService, storage.Service)
	assert.Equal(t, "token-words.example.com:8443", storage.Account)

	_, err := storage.Load()
	assert.ErrorIs(t, err, ErrNoToken)

	s := openStore(t, storage)
	require.NoError(t, s.SetToken("tok123", true))

	restarted := openStore(t, NewKeyringStorage("https://words.example.com:8443"))
	assert.Equal(t, "tok123", restarted.Token())

	// Tokens are scoped per host
	other := openStore(t, NewKeyringStorage("http://localhost:8000"))
	assert.Equal(t, "", other.Token())

	require.NoError(t, restarted.Clear())
	require.NoError(t, storage.Delete(), "deleting a missing entry is not an error")
	_, err = storage.Load()
	assert.ErrorIs(t, err, ErrNoToken)
}
