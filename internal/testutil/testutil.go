// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"testing"

	"github.com/starford/blueprint/internal/store"
)

// TestStore returns a filesystem repository rooted in a fresh temp
// directory that is cleaned up with the test.
func TestStore(t *testing.T) *store.FS {
	t.Helper()
	f, err := store.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return f
}
