package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value is stored under the key.
var ErrNotFound = errors.New("key not found")

// KV is a durable key-value store whose values are JSON documents.
// It plays the role browser local storage plays for a web client:
// values survive restarts and are only removed explicitly.
type KV interface {
	// Get decodes the value stored under key into dst.
	// Returns ErrNotFound when the key is absent.
	Get(ctx context.Context, key string, dst any) error

	// Set encodes value as JSON and stores it under key, replacing
	// any previous value.
	Set(ctx context.Context, key string, value any) error

	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error

	// Clear deletes every key.
	Clear(ctx context.Context) error

	// Keys lists the stored keys in lexical order.
	Keys(ctx context.Context) ([]string, error)
}
