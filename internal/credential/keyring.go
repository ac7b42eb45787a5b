package credential

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/99designs/keyring"

	"github.com/nhle/tavern/internal/model"
)

const serviceName = "tavern"

// OpenKeyring returns a configured system keyring. fileDir is used by the
// encrypted-file fallback backend.
func OpenKeyring(fileDir string) (keyring.Keyring, error) {
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
		FilePasswordFunc:         keyring.FixedStringPrompt("tavern-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// KeyringStore keeps the credential in the operating system keyring.
type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore returns a Store backed by ring.
func NewKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

// Token retrieves the bearer value from the keyring.
func (s *KeyringStore) Token() (string, error) {
	item, err := s.ring.Get(KeyToken)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("getting credential %q: %w", KeyToken, err)
	}
	if len(item.Data) == 0 {
		return "", ErrNotFound
	}
	return string(item.Data), nil
}

// User retrieves the profile record from the keyring.
func (s *KeyringStore) User() (model.User, error) {
	item, err := s.ring.Get(KeyUser)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("getting credential %q: %w", KeyUser, err)
	}

	var user model.User
	if err := json.Unmarshal(item.Data, &user); err != nil {
		return model.User{}, fmt.Errorf("decoding credential %q: %w", KeyUser, err)
	}
	return user, nil
}

// Save stores the bearer value and profile record in the keyring.
func (s *KeyringStore) Save(token string, user model.User) error {
	err := s.ring.Set(keyring.Item{
		Key:   KeyToken,
		Data:  []byte(token),
		Label: "BrilliantTavern session token",
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", KeyToken, err)
	}

	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding credential %q: %w", KeyUser, err)
	}
	err = s.ring.Set(keyring.Item{
		Key:   KeyUser,
		Data:  data,
		Label: "BrilliantTavern user profile",
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", KeyUser, err)
	}

	return nil
}

// Clear removes both keyring entries. Entries that are already gone are
// ignored.
func (s *KeyringStore) Clear() error {
	var errs []error
	for _, key := range []string{KeyToken, KeyUser} {
		if err := s.ring.Remove(key); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
			errs = append(errs, fmt.Errorf("deleting credential %q: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
