// Package migrator implements the schema-migration engine: a history
// table bookkeeping applied migrations, a schema-manipulation façade
// handed to each migration's Up/Down, and a planner that reconciles
// declared migrations against the history table to install, apply,
// roll back, or rebuild a database's schema.
package migrator

import (
	"context"

	"github.com/oarkflow/migrator/statement"
)

// Row is one result row, addressed by column name. Backends disagree on
// which Go type a driver hands back for a given SQL type, so Row
// normalizes access behind typed getters instead of exposing the
// driver's own scan path.
type Row interface {
	TryGetString(column string) (string, error)
	TryGetInt64(column string) (int64, error)
}

// Connection is the minimal database surface the engine needs: build a
// statement.Statement for the connection's own backend and either
// execute it or run it as a query. LiftError wraps a message in
// whatever error type the concrete connection uses for engine-raised
// failures (as opposed to driver-raised ones), so callers can use
// errors.Is/As uniformly regardless of which Connection they're using.
type Connection interface {
	Backend() statement.Backend
	Exec(ctx context.Context, stmt statement.Statement) error
	QueryOne(ctx context.Context, stmt statement.Statement) (Row, bool, error)
	QueryAll(ctx context.Context, stmt statement.Statement) ([]Row, error)
	LiftError(msg string) error
}
