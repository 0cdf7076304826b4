package testutil

import (
	"path/filepath"
	"testing"

	"github.com/mlefevre/todopro/internal/prefs"
	"github.com/mlefevre/todopro/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with the full schema applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// NewTestPrefs creates a preferences store backed by a temp file that is
// removed with the test's temp dir.
func NewTestPrefs(t *testing.T) *prefs.Store {
	t.Helper()

	p, err := prefs.Open(filepath.Join(t.TempDir(), "prefs.yaml"))
	if err != nil {
		t.Fatalf("creating test prefs: %v", err)
	}
	return p
}
