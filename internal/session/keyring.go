package session

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/99designs/keyring"
)

const (
	serviceName = "todopro"
	sessionKey  = "current_user_id"
)

// KeyringStore keeps the session indicator in the OS keyring, falling back to
// an encrypted file backend where no system keyring service is available.
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore opens the keyring. fileDir is where the file backend stores
// its entries when it is the one selected.
func NewKeyringStore(fileDir string) (*KeyringStore, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  fileDir,
		FilePasswordFunc:         keyring.FixedStringPrompt("todopro-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return &KeyringStore{ring: ring}, nil
}

// CurrentUserID returns the signed-in account id, or 0 when signed out or
// when the stored entry is unreadable.
func (s *KeyringStore) CurrentUserID() int64 {
	item, err := s.ring.Get(sessionKey)
	if err != nil {
		return 0
	}
	id, err := strconv.ParseInt(string(item.Data), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// SetCurrentUser persists the signed-in account id.
func (s *KeyringStore) SetCurrentUser(id int64) error {
	err := s.ring.Set(keyring.Item{
		Key:  sessionKey,
		Data: []byte(strconv.FormatInt(id, 10)),
	})
	if err != nil {
		return fmt.Errorf("storing session in keyring: %w", err)
	}
	return nil
}

// Clear signs the current account out. Clearing an absent session is not an
// error.
func (s *KeyringStore) Clear() error {
	err := s.ring.Remove(sessionKey)
	if err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("clearing session from keyring: %w", err)
	}
	return nil
}
