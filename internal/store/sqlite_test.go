package store_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/nhle/tavern/internal/store"
	"github.com/nhle/tavern/tests/testutil"
)

type profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func TestSQLiteStoreSetGet(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	want := profile{ID: "u-1", Username: "alice"}
	if err := s.Set(ctx, "user", want); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got profile
	if err := s.Get(ctx, "user", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	// Overwrite replaces the previous value.
	if err := s.Set(ctx, "user", profile{ID: "u-2"}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if err := s.Get(ctx, "user", &got); err != nil {
		t.Fatalf("get after overwrite: %v", err)
	}
	if got.ID != "u-2" || got.Username != "" {
		t.Fatalf("overwrite not applied: %+v", got)
	}
}

func TestSQLiteStoreMissingKey(t *testing.T) {
	s := testutil.NewTestStore(t)

	var v string
	err := s.Get(context.Background(), "token", &v)
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStoreRemoveIsIdempotent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "token", "abc"); err != nil {
		t.Fatalf("set: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := s.Remove(ctx, "token"); err != nil {
			t.Fatalf("remove #%d: %v", i+1, err)
		}
	}

	var v string
	if err := s.Get(ctx, "token", &v); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}

func TestSQLiteStoreKeysAndClear(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	for _, k := range []string{"user", "token", "theme"} {
		if err := s.Set(ctx, k, k); err != nil {
			t.Fatalf("set %s: %v", k, err)
		}
	}

	keys, err := s.Keys(ctx)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if want := []string{"theme", "token", "user"}; !reflect.DeepEqual(keys, want) {
		t.Fatalf("keys = %v, want %v", keys, want)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	keys, err = s.Keys(ctx)
	if err != nil {
		t.Fatalf("keys after clear: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected no keys after clear, got %v", keys)
	}
}

func TestSQLiteStoreReopenKeepsMigrations(t *testing.T) {
	path := t.TempDir() + "/tavern.db"

	s, err := store.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(context.Background(), "token", "persisted"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = store.NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	var v string
	if err := s.Get(context.Background(), "token", &v); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
	if v != "persisted" {
		t.Fatalf("got %q, want persisted", v)
	}
}
