package statement

import "errors"

// ErrUnsupportedForBackend is returned by Build when a statement only
// makes sense under one backend (Postgres user-defined types) and is
// built for another.
var ErrUnsupportedForBackend = errors.New("statement: unsupported for backend")

// Statement is a backend-polymorphic logical SQL statement. Build binds
// the dialect and produces the concrete SQL text plus an ordered
// parameter vector. DDL statements always return a nil/empty params
// slice.
type Statement interface {
	Build(backend Backend) (sql string, params []any, err error)
}

// Raw is a statement that ignores the backend and echoes itself
// verbatim, with no parameters. Useful for dialect-specific pragmas
// (e.g. SQLite's "PRAGMA foreign_keys = OFF") that don't warrant their
// own statement type.
type Raw string

func (r Raw) Build(Backend) (string, []any, error) {
	return string(r), nil, nil
}
