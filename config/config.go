// Package config resolves the database dialect and connection string a
// CLI entrypoint needs from the process environment.
package config

import (
	"fmt"
	"os"

	"github.com/oarkflow/migrator/statement"
)

const (
	envDialect = "MIGRATOR_DIALECT"
	envDSN     = "MIGRATOR_DSN"
	envLock    = "MIGRATOR_LOCK_FILE"
)

// Config holds everything a CLI entrypoint needs to open a connection
// and run the engine against it.
type Config struct {
	Backend  statement.Backend
	DSN      string
	LockFile string
}

// getenv returns the environment variable's value, or a default when
// unset/empty.
func getenv(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

// Load resolves Config from the environment. MIGRATOR_DIALECT must be
// one of "mysql", "postgres" (or "postgresql") or "sqlite" (or
// "sqlite3"); MIGRATOR_DSN is required.
// MIGRATOR_LOCK_FILE defaults to "migration.lock" in the working
// directory.
func Load() (Config, error) {
	dialect := getenv(envDialect, "")
	backend, err := ParseBackend(dialect)
	if err != nil {
		return Config{}, err
	}
	dsn := os.Getenv(envDSN)
	if dsn == "" {
		return Config{}, fmt.Errorf("config: %s is required", envDSN)
	}
	return Config{
		Backend:  backend,
		DSN:      dsn,
		LockFile: getenv(envLock, "migration.lock"),
	}, nil
}

// ParseBackend maps a dialect name to a statement.Backend.
func ParseBackend(dialect string) (statement.Backend, error) {
	switch dialect {
	case "mysql":
		return statement.MySQL, nil
	case "postgres", "postgresql":
		return statement.Postgres, nil
	case "sqlite", "sqlite3":
		return statement.SQLite, nil
	default:
		return 0, fmt.Errorf("config: unknown or unset %s %q (want mysql, postgres or sqlite)", envDialect, dialect)
	}
}
