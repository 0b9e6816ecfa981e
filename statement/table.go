package statement

import (
	"fmt"
	"strings"
)

// CreateTable builds "CREATE TABLE [IF NOT EXISTS] ...". PrimaryKey
// names a (possibly composite) primary key appended as a trailing
// PRIMARY KEY (...) constraint; when it is set, columns marked
// PrimaryKey inline get no inline PRIMARY KEY clause. The history table
// leaves it empty and marks its version column inline instead.
type CreateTable struct {
	Name       string
	IfNotExist bool
	Columns    []Column
	PrimaryKey []string
}

func (ct CreateTable) Build(backend Backend) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("CREATE TABLE ")
	if ct.IfNotExist {
		sb.WriteString("IF NOT EXISTS ")
	}
	sb.WriteString(quoteIdent(backend, ct.Name))
	sb.WriteString(" (")
	var parts []string
	for _, col := range ct.Columns {
		def := columnDef(backend, col)
		if col.PrimaryKey && len(ct.PrimaryKey) == 0 {
			def += " PRIMARY KEY"
		}
		parts = append(parts, def)
	}
	if len(ct.PrimaryKey) > 0 {
		var pk []string
		for _, name := range ct.PrimaryKey {
			pk = append(pk, quoteIdent(backend, name))
		}
		parts = append(parts, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pk, ", ")))
	}
	sb.WriteString(strings.Join(parts, ", "))
	sb.WriteString(")")
	return sb.String(), nil, nil
}

// DropTable builds "DROP TABLE IF EXISTS ...". Cascade is honored for
// MySQL/Postgres; SQLite never emits CASCADE (current SQLite versions
// ignore it, but the keyword is reserved, so it is simply omitted
// rather than relying on that forward-compatibility accident).
type DropTable struct {
	Name     string
	IfExists bool
	Cascade  bool
}

func (dt DropTable) Build(backend Backend) (string, []any, error) {
	var sb strings.Builder
	sb.WriteString("DROP TABLE ")
	if dt.IfExists {
		sb.WriteString("IF EXISTS ")
	}
	sb.WriteString(quoteIdent(backend, dt.Name))
	if dt.Cascade && backend != SQLite {
		sb.WriteString(" CASCADE")
	}
	return sb.String(), nil, nil
}

// RenameTable builds the dialect's rename-table statement: MySQL uses
// RENAME TABLE, Postgres/SQLite use ALTER TABLE ... RENAME TO.
type RenameTable struct {
	OldName string
	NewName string
}

func (rt RenameTable) Build(backend Backend) (string, []any, error) {
	switch backend {
	case MySQL:
		return fmt.Sprintf("RENAME TABLE %s TO %s", quoteIdent(backend, rt.OldName), quoteIdent(backend, rt.NewName)), nil, nil
	default:
		return fmt.Sprintf("ALTER TABLE %s RENAME TO %s", quoteIdent(backend, rt.OldName), quoteIdent(backend, rt.NewName)), nil, nil
	}
}

// TruncateTable builds "TRUNCATE TABLE ..."; SQLite has no TRUNCATE, so
// it is rendered as an unconditional DELETE FROM, matching SQLite's own
// documented equivalent.
type TruncateTable struct {
	Name string
}

func (tt TruncateTable) Build(backend Backend) (string, []any, error) {
	if backend == SQLite {
		return fmt.Sprintf("DELETE FROM %s", quoteIdent(backend, tt.Name)), nil, nil
	}
	return fmt.Sprintf("TRUNCATE TABLE %s", quoteIdent(backend, tt.Name)), nil, nil
}

// AlterTable performs exactly one alteration against a table: add a
// column, drop a column, or rename a column. Exactly one of AddColumn,
// DropColumn or RenameColumn must be set; Build returns an error
// otherwise. Splitting multi-column migrations into one AlterTable per
// column keeps each statement portable across all three backends,
// since MySQL/Postgres accept comma-separated multi-action ALTER TABLE
// but SQLite only ever accepts one action per statement.
type AlterTable struct {
	Name         string
	AddColumn    *Column
	DropColumn   string
	RenameColumn *RenameColumnOp
}

// RenameColumnOp renames a single column; MySQL requires the column's
// full type to be restated (CHANGE syntax), Postgres/SQLite do not.
type RenameColumnOp struct {
	From string
	To   string
	Type string
}

func (at AlterTable) Build(backend Backend) (string, []any, error) {
	set := 0
	if at.AddColumn != nil {
		set++
	}
	if at.DropColumn != "" {
		set++
	}
	if at.RenameColumn != nil {
		set++
	}
	if set != 1 {
		return "", nil, fmt.Errorf("statement: AlterTable %q must set exactly one of AddColumn, DropColumn, RenameColumn", at.Name)
	}
	switch {
	case at.AddColumn != nil:
		return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s", quoteIdent(backend, at.Name), columnDef(backend, *at.AddColumn)), nil, nil
	case at.DropColumn != "":
		if backend == SQLite {
			return "", nil, fmt.Errorf("statement: SQLite does not support DROP COLUMN via ALTER TABLE; recreate the table instead")
		}
		return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s", quoteIdent(backend, at.Name), quoteIdent(backend, at.DropColumn)), nil, nil
	default:
		rc := at.RenameColumn
		switch backend {
		case SQLite:
			return "", nil, fmt.Errorf("statement: SQLite does not support RENAME COLUMN via ALTER TABLE; recreate the table instead")
		case MySQL:
			if rc.Type == "" {
				return "", nil, fmt.Errorf("statement: MySQL requires the column type to rename a column")
			}
			return fmt.Sprintf("ALTER TABLE %s CHANGE %s %s %s", quoteIdent(backend, at.Name), quoteIdent(backend, rc.From), quoteIdent(backend, rc.To), rc.Type), nil, nil
		default:
			return fmt.Sprintf("ALTER TABLE %s RENAME COLUMN %s TO %s", quoteIdent(backend, at.Name), quoteIdent(backend, rc.From), quoteIdent(backend, rc.To)), nil, nil
		}
	}
}
