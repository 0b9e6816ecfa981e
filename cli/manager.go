// Package cli wires the engine onto an oarkflow/cli application, with
// one Signature()/Description()/Extend()/Handle(ctx) command per
// migration action, each one bound to the engine's Connection/Migrator
// pair.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/oarkflow/cli"
	"github.com/oarkflow/cli/console"
	"github.com/oarkflow/cli/contracts"

	"github.com/oarkflow/migrator/manifest"
	"github.com/oarkflow/migrator/migrator"
)

var (
	Name    = "Migrator"
	Version = "v0.0.1"
)

// Manager owns the declared migration set, the connection it runs
// against, and the lock file path the migrate:* commands serialize on.
type Manager struct {
	engine       *migrator.Migrator
	lockFile     string
	migrationDir string
	client       contracts.Cli
}

// NewManager builds the oarkflow/cli application and registers every
// migrate:*/make:migration command against engine.
func NewManager(engine *migrator.Migrator, lockFile, migrationDir string) *Manager {
	cli.SetName(Name)
	cli.SetVersion(Version)
	app := cli.New()
	client := app.Instance.Client()
	m := &Manager{engine: engine, lockFile: lockFile, migrationDir: migrationDir, client: client}
	client.Register([]contracts.Command{
		console.NewListCommand(client),
		&UpCommand{Manager: m},
		&DownCommand{Manager: m},
		&FreshCommand{Manager: m},
		&RefreshCommand{Manager: m},
		&ResetCommand{Manager: m},
		&StatusCommand{Manager: m},
		&MakeMigrationCommand{Manager: m},
	})
	return m
}

func (m *Manager) Run() {
	m.client.Run(os.Args, true)
}

func (m *Manager) withLock(fn func(ctx context.Context) error) error {
	if _, err := migrator.Lock(m.lockFile); err != nil {
		return fmt.Errorf("cannot start migration: %w", err)
	}
	defer func() {
		if err := migrator.Unlock(m.lockFile); err != nil {
			fmt.Fprintf(os.Stderr, "warning: releasing lock: %v\n", err)
		}
	}()
	return fn(context.Background())
}

// LoadManifests compiles every .bcl manifest in dir into
// migrator.MigrationUnit values, for a host that prefers declarative
// files over Go-authored units.
func LoadManifests(dir string) ([]migrator.MigrationUnit, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cli: read migration directory %q: %w", dir, err)
	}
	var units []migrator.MigrationUnit
	for _, e := range entries {
		if e.IsDir() || !isManifestFile(e.Name()) {
			continue
		}
		unit, err := manifest.Load(dir + "/" + e.Name())
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}
	return units, nil
}

func isManifestFile(name string) bool {
	return len(name) > 4 && name[len(name)-4:] == ".bcl"
}
