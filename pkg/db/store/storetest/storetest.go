// Package storetest opens throwaway index databases for tests.
package storetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mwantia/goindex/pkg/db/store"
)

// New returns a migrated store backed by a file in t.TempDir. It is closed
// when the test ends.
func New(t testing.TB) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(store.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "index.db"),
	})
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	ctx := context.Background()
	if err := s.Connect(ctx); err != nil {
		t.Fatalf("failed to connect store: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate store: %v", err)
	}

	return s
}
