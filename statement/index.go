package statement

import "fmt"

// CreateIndex builds "CREATE [UNIQUE] INDEX ... ON table (cols...)".
type CreateIndex struct {
	Name    string
	Table   string
	Columns []string
	Unique  bool
}

func (ci CreateIndex) Build(backend Backend) (string, []any, error) {
	kw := "INDEX"
	if ci.Unique {
		kw = "UNIQUE INDEX"
	}
	return fmt.Sprintf("CREATE %s %s ON %s (%s)", kw, quoteIdent(backend, ci.Name), quoteIdent(backend, ci.Table), joinIdents(backend, ci.Columns)), nil, nil
}

// DropIndex builds "DROP INDEX ...". MySQL requires the owning table
// name in its DROP INDEX syntax; Postgres/SQLite address indexes by
// name alone.
type DropIndex struct {
	Name     string
	Table    string
	IfExists bool
}

func (di DropIndex) Build(backend Backend) (string, []any, error) {
	exists := ""
	if di.IfExists && backend != MySQL {
		exists = "IF EXISTS "
	}
	switch backend {
	case MySQL:
		return fmt.Sprintf("DROP INDEX %s ON %s", quoteIdent(backend, di.Name), quoteIdent(backend, di.Table)), nil, nil
	default:
		return fmt.Sprintf("DROP INDEX %s%s", exists, quoteIdent(backend, di.Name)), nil, nil
	}
}

func joinIdents(backend Backend, names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += quoteIdent(backend, n)
	}
	return out
}
