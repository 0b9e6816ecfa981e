package statement

import "fmt"

// CreateType, AlterType and DropType build Postgres CREATE/ALTER/DROP
// TYPE statements for enum-like user-defined types. They fail with
// ErrUnsupportedForBackend when built for MySQL or SQLite, neither of
// which has an equivalent construct. This is a build-time failure, so
// no SQL is ever sent to a driver that can't support it.
type CreateType struct {
	Name   string
	Values []string
}

func (ct CreateType) Build(backend Backend) (string, []any, error) {
	if backend != Postgres {
		return "", nil, ErrUnsupportedForBackend
	}
	return fmt.Sprintf("CREATE TYPE %s AS ENUM (%s)", quoteIdent(backend, ct.Name), joinQuotedValues(ct.Values)), nil, nil
}

type AlterType struct {
	Name     string
	AddValue string
}

func (at AlterType) Build(backend Backend) (string, []any, error) {
	if backend != Postgres {
		return "", nil, ErrUnsupportedForBackend
	}
	return fmt.Sprintf("ALTER TYPE %s ADD VALUE '%s'", quoteIdent(backend, at.Name), at.AddValue), nil, nil
}

type DropType struct {
	Name     string
	IfExists bool
}

func (dt DropType) Build(backend Backend) (string, []any, error) {
	if backend != Postgres {
		return "", nil, ErrUnsupportedForBackend
	}
	exists := ""
	if dt.IfExists {
		exists = "IF EXISTS "
	}
	return fmt.Sprintf("DROP TYPE %s%s", exists, quoteIdent(backend, dt.Name)), nil, nil
}

func joinQuotedValues(values []string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("'%s'", v)
	}
	return out
}
