package statement

import "fmt"

// CreateForeignKey builds "ALTER TABLE ... ADD CONSTRAINT ... FOREIGN
// KEY ...". SQLite foreign keys cannot be added to an existing table;
// they must be declared inline on CreateTable, so Build fails for
// SQLite, matching the underlying engine's limitation.
type CreateForeignKey struct {
	Name            string
	Table           string
	Column          string
	ReferenceTable  string
	ReferenceColumn string
	OnDelete        string
	OnUpdate        string
}

func (fk CreateForeignKey) Build(backend Backend) (string, []any, error) {
	if backend == SQLite {
		return "", nil, fmt.Errorf("statement: SQLite foreign keys must be declared at table-creation time")
	}
	sql := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s(%s)",
		quoteIdent(backend, fk.Table), quoteIdent(backend, fk.Name), quoteIdent(backend, fk.Column),
		quoteIdent(backend, fk.ReferenceTable), quoteIdent(backend, fk.ReferenceColumn))
	if fk.OnDelete != "" {
		sql += fmt.Sprintf(" ON DELETE %s", fk.OnDelete)
	}
	if fk.OnUpdate != "" {
		sql += fmt.Sprintf(" ON UPDATE %s", fk.OnUpdate)
	}
	return sql, nil, nil
}

// DropForeignKey builds "ALTER TABLE ... DROP FOREIGN KEY/CONSTRAINT
// ...". This is how fresh(db) clears MySQL's cross-table foreign keys
// before dropping tables: it is enumerated dynamically from
// information_schema.table_constraints, one DropForeignKey per row.
type DropForeignKey struct {
	Table string
	Name  string
}

func (fk DropForeignKey) Build(backend Backend) (string, []any, error) {
	switch backend {
	case MySQL:
		return fmt.Sprintf("ALTER TABLE %s DROP FOREIGN KEY %s", quoteIdent(backend, fk.Table), quoteIdent(backend, fk.Name)), nil, nil
	case Postgres:
		return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s", quoteIdent(backend, fk.Table), quoteIdent(backend, fk.Name)), nil, nil
	default:
		return "", nil, fmt.Errorf("statement: SQLite does not support dropping a named foreign key constraint")
	}
}
