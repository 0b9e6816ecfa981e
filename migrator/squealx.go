package migrator

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/oarkflow/squealx"

	"github.com/oarkflow/migrator/statement"
)

// execer is the subset of *squealx.DB and *squealx.Tx this package
// needs, covering both execution and querying. squealx embeds the
// standard library's *sql.DB/*sql.Tx (sqlx-style), so both satisfy
// database/sql's context-aware methods directly.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// SquealxConnection adapts a *squealx.DB to the Connection interface,
// translating each statement.Statement into dialect SQL via Build and
// dispatching through the standard library's context-aware methods.
type SquealxConnection struct {
	db      *squealx.DB
	backend statement.Backend
}

// NewSquealxConnection wraps db for backend. backend must match the
// dialect db was opened against (e.g. postgres.Open, mysql.Open,
// sqlite.Open); it is not auto-detected, since squealx doesn't expose
// the driver name uniformly across its per-dialect packages.
func NewSquealxConnection(db *squealx.DB, backend statement.Backend) *SquealxConnection {
	return &SquealxConnection{db: db, backend: backend}
}

func (c *SquealxConnection) Backend() statement.Backend { return c.backend }

func (c *SquealxConnection) LiftError(msg string) error {
	return &ErrMissingRow{Reason: msg}
}

func (c *SquealxConnection) Exec(ctx context.Context, stmt statement.Statement) error {
	return execStatement(ctx, c.db, c.backend, stmt)
}

func (c *SquealxConnection) QueryOne(ctx context.Context, stmt statement.Statement) (Row, bool, error) {
	rows, err := queryStatement(ctx, c.db, c.backend, stmt)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}

func (c *SquealxConnection) QueryAll(ctx context.Context, stmt statement.Statement) ([]Row, error) {
	return queryStatement(ctx, c.db, c.backend, stmt)
}

func execStatement(ctx context.Context, e execer, backend statement.Backend, stmt statement.Statement) error {
	sqlText, params, err := stmt.Build(backend)
	if err != nil {
		return err
	}
	_, err = e.ExecContext(ctx, sqlText, params...)
	if err != nil {
		return fmt.Errorf("migrator: exec %q: %w", sqlText, err)
	}
	return nil
}

func queryStatement(ctx context.Context, e execer, backend statement.Backend, stmt statement.Statement) ([]Row, error) {
	sqlText, params, err := stmt.Build(backend)
	if err != nil {
		return nil, err
	}
	rows, err := e.QueryContext(ctx, sqlText, params...)
	if err != nil {
		return nil, fmt.Errorf("migrator: query %q: %w", sqlText, err)
	}
	defer rows.Close()
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		out = append(out, &mapRow{cols: cols, values: values})
	}
	return out, rows.Err()
}

// mapRow is a generic column-name-addressed Row backed by the driver's
// raw scanned values, normalizing the numeric/string type variance
// across MySQL/Postgres/SQLite drivers (e.g. COUNT(*) may come back as
// int64 or []byte depending on driver).
type mapRow struct {
	cols   []string
	values []any
}

func (r *mapRow) index(column string) (int, bool) {
	for i, c := range r.cols {
		if c == column {
			return i, true
		}
	}
	return 0, false
}

func (r *mapRow) TryGetString(column string) (string, error) {
	i, ok := r.index(column)
	if !ok {
		return "", fmt.Errorf("migrator: column %q not present in result", column)
	}
	switch v := r.values[i].(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case nil:
		return "", nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

func (r *mapRow) TryGetInt64(column string) (int64, error) {
	i, ok := r.index(column)
	if !ok {
		return 0, fmt.Errorf("migrator: column %q not present in result", column)
	}
	switch v := r.values[i].(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case []byte:
		var n int64
		if _, err := fmt.Sscanf(string(v), "%d", &n); err != nil {
			return 0, fmt.Errorf("migrator: column %q is not an integer: %w", column, err)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("migrator: column %q has unexpected type %T", column, v)
	}
}
