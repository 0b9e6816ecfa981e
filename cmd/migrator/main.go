// Command migrator is the CLI entrypoint: it resolves a dialect/DSN
// from the environment (config package), opens the matching squealx
// driver, loads the .bcl manifests in the migrations/ directory as the
// declared migration units (it declares no Go units of its own), and
// hands the assembled engine to the cli package's oarkflow/cli
// application.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/oarkflow/squealx"
	"github.com/oarkflow/squealx/drivers/mysql"
	"github.com/oarkflow/squealx/drivers/postgres"
	"github.com/oarkflow/squealx/drivers/sqlite"

	"github.com/oarkflow/migrator/cli"
	"github.com/oarkflow/migrator/config"
	"github.com/oarkflow/migrator/migrator"
	"github.com/oarkflow/migrator/statement"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	db, err := openDB(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	conn := migrator.NewSquealxConnection(db, cfg.Backend)

	units, err := cli.LoadManifests("migrations")
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	engine, err := migrator.New(conn, units)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	manager := cli.NewManager(engine, cfg.LockFile, "migrations")
	manager.Run()
}

func openDB(cfg config.Config) (*squealx.DB, error) {
	switch cfg.Backend {
	case statement.MySQL:
		return mysql.Open(cfg.DSN, "mysql")
	case statement.Postgres:
		return postgres.Open(cfg.DSN, "postgres")
	case statement.SQLite:
		return sqlite.Open(cfg.DSN, "sqlite3")
	default:
		return nil, fmt.Errorf("migrator: unsupported backend %v", cfg.Backend)
	}
}
