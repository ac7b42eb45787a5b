package testutil

import (
	"testing"

	"github.com/nhle/tavern/internal/store"
)

// NewTestStore returns an empty key-value store backed by an in-memory
// SQLite database, schema applied. It is closed when t finishes, so
// credential and token tests each start without a stored token or user.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	kv, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory kv store: %v", err)
	}
	t.Cleanup(func() {
		if err := kv.Close(); err != nil {
			t.Errorf("closing in-memory kv store: %v", err)
		}
	})
	return kv
}
