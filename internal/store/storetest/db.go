// Package storetest opens throwaway stores for tests.
package storetest

import (
	"testing"
	"time"

	"toolbench/internal/store"
	"toolbench/internal/testutil"
	"toolbench/internal/tools"
)

const defaultTimeout = 5 * time.Second

// Open returns an in-memory store with the default catalog, closed at test cleanup.
func Open(t testing.TB) *store.Store {
	t.Helper()
	ctx := testutil.Context(t, defaultTimeout)
	s, err := store.Open(ctx, ":memory:", tools.DefaultNames)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}
