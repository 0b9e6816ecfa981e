package migrator

import (
	"path/filepath"
	"testing"
)

func TestLockThenUnlockRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "migration.lock")
	token, err := Lock(path)
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Fatal("expected a non-empty run token")
	}
	owner, err := LockOwner(path)
	if err != nil {
		t.Fatal(err)
	}
	if owner != token {
		t.Fatalf("want lock owner %q, got %q", token, owner)
	}
	if _, err := Lock(path); err == nil {
		t.Fatal("expected a second Lock to fail while the first is held")
	}
	if err := Unlock(path); err != nil {
		t.Fatal(err)
	}
	if _, err := Lock(path); err != nil {
		t.Fatalf("expected Lock to succeed again after Unlock: %v", err)
	}
}
