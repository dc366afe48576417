// Package credential persists the session token and user snapshot
// across client restarts using the system keyring.
package credential

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/mzurek/taskflow/internal/model"
)

const serviceName = "taskflow"

const (
	tokenKey = "session-token"
	userKey  = "session-user"
)

// ErrNotStored is returned when no credential is persisted.
var ErrNotStored = errors.New("credential not stored")

// Store reads and writes the persisted session credential.
// Implementations must treat Clear as unconditional: clearing an
// already-empty store is not an error.
type Store interface {
	Load() (token string, user *model.User, err error)
	Save(token string, user model.User) error
	Clear() error
}

// KeyringStore is the Store implementation backed by the OS keyring,
// with an encrypted file fallback.
type KeyringStore struct{}

// NewKeyringStore returns a keyring-backed credential store.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/taskflow/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("taskflow-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Load reads the persisted token and user snapshot. Returns
// ErrNotStored when either is missing.
func (s *KeyringStore) Load() (string, *model.User, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", nil, err
	}

	tokenItem, err := ring.Get(tokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", nil, ErrNotStored
		}
		return "", nil, fmt.Errorf("reading stored token: %w", err)
	}

	userItem, err := ring.Get(userKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", nil, ErrNotStored
		}
		return "", nil, fmt.Errorf("reading stored user: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(userItem.Data, &user); err != nil {
		return "", nil, fmt.Errorf("decoding stored user: %w", err)
	}

	return string(tokenItem.Data), &user, nil
}

// Save persists the token and user snapshot.
func (s *KeyringStore) Save(token string, user model.User) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	userData, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}

	if err := ring.Set(keyring.Item{Key: tokenKey, Data: []byte(token)}); err != nil {
		return fmt.Errorf("storing token: %w", err)
	}
	if err := ring.Set(keyring.Item{Key: userKey, Data: userData}); err != nil {
		return fmt.Errorf("storing user: %w", err)
	}

	return nil
}

// Clear removes the persisted token and user unconditionally.
func (s *KeyringStore) Clear() error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	for _, key := range []string{tokenKey, userKey} {
		if err := ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
			return fmt.Errorf("removing credential %q: %w", key, err)
		}
	}

	return nil
}
