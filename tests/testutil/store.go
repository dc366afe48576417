// Package testutil provides shared fixtures for store-backed tests.
package testutil

import (
	"testing"

	"github.com/mzurek/taskflow/internal/store"
)

// NewTestStore opens a fully migrated in-memory store. It is closed
// automatically when the test finishes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("opening in-memory store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing in-memory store: %v", err)
		}
	})
	return s
}
