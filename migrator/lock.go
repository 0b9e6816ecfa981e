package migrator

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// Lock and Unlock guard a single Migrator operation from overlapping
// with another process's, writing a random run token into the lock
// file (rather than leaving it empty) so a lock file left behind by a
// crashed process can be attributed to the run that created it. This
// is optional convenience for a CLI; Migrator's own methods never
// call it, since a library caller embedding the engine in a
// long-running service should not be forced into file locking.
func Lock(path string) (string, error) {
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("migrator: lock file %q already exists", path)
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("migrator: stat lock file %q: %w", path, err)
	}
	token := uuid.NewString()
	if err := os.WriteFile(path, []byte(token), 0o644); err != nil {
		return "", fmt.Errorf("migrator: create lock file %q: %w", path, err)
	}
	return token, nil
}

// Unlock removes the lock file at path.
func Unlock(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("migrator: remove lock file %q: %w", path, err)
	}
	return nil
}

// LockOwner reads the run token recorded in the lock file at path, for
// diagnosing a stuck lock.
func LockOwner(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("migrator: read lock file %q: %w", path, err)
	}
	return string(data), nil
}
