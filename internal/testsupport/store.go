package testsupport

import (
	"context"
	"testing"

	"contentprep/internal/config"
	"contentprep/internal/content"
	"contentprep/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		st.Close()
	})
	return st
}

// MustSaveSet persists set and returns the stored copy.
func MustSaveSet(t testing.TB, st *store.Store, set content.Set) content.Set {
	t.Helper()

	saved, err := st.CreateOrUpdateSet(context.Background(), set)
	if err != nil {
		t.Fatalf("store.CreateOrUpdateSet: %v", err)
	}
	return saved
}
