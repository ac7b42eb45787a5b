package credential

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/tavern/internal/model"
	"github.com/nhle/tavern/internal/store"
)

// KVStore keeps the credential in the local key-value database.
type KVStore struct {
	kv store.KV
}

// NewKVStore returns a Store backed by kv.
func NewKVStore(kv store.KV) *KVStore {
	return &KVStore{kv: kv}
}

// Token returns the stored bearer value.
func (s *KVStore) Token() (string, error) {
	var token string
	if err := s.kv.Get(context.Background(), KeyToken, &token); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("reading %s: %w", KeyToken, err)
	}
	if token == "" {
		return "", ErrNotFound
	}
	return token, nil
}

// User returns the stored profile record.
func (s *KVStore) User() (model.User, error) {
	var user model.User
	if err := s.kv.Get(context.Background(), KeyUser, &user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.User{}, ErrNotFound
		}
		return model.User{}, fmt.Errorf("reading %s: %w", KeyUser, err)
	}
	return user, nil
}

// Save stores the bearer value and the profile record.
func (s *KVStore) Save(token string, user model.User) error {
	ctx := context.Background()
	if err := s.kv.Set(ctx, KeyToken, token); err != nil {
		return fmt.Errorf("saving %s: %w", KeyToken, err)
	}
	if err := s.kv.Set(ctx, KeyUser, user); err != nil {
		return fmt.Errorf("saving %s: %w", KeyUser, err)
	}
	return nil
}

// Clear removes the bearer value and the profile record.
func (s *KVStore) Clear() error {
	ctx := context.Background()
	var errs []error
	for _, key := range []string{KeyToken, KeyUser} {
		if err := s.kv.Remove(ctx, key); err != nil {
			errs = append(errs, fmt.Errorf("removing %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}
