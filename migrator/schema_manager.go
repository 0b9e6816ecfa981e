package migrator

import (
	"context"
	"fmt"

	"github.com/oarkflow/migrator/statement"
)

// SchemaManager is the façade handed to a MigrationUnit's Up/Down: it
// forwards typed DDL statements to the underlying Connection and
// exposes has_table/has_column introspection. It holds no state beyond
// the connection it borrows.
type SchemaManager struct {
	conn Connection
}

func NewSchemaManager(conn Connection) *SchemaManager {
	return &SchemaManager{conn: conn}
}

func (m *SchemaManager) Backend() statement.Backend { return m.conn.Backend() }

// Exec forwards any statement, DDL or DML, to the underlying
// Connection. Seed data and manifest-declared DeleteData operations
// use this directly, since Insert/Delete are not schema operations and
// so have no dedicated façade method.
func (m *SchemaManager) Exec(ctx context.Context, stmt statement.Statement) error {
	return m.conn.Exec(ctx, stmt)
}

// QueryAll forwards a read-only statement to the underlying
// Connection, for units that need to inspect data (not just schema)
// before deciding what to do.
func (m *SchemaManager) QueryAll(ctx context.Context, stmt statement.Statement) ([]Row, error) {
	return m.conn.QueryAll(ctx, stmt)
}

func (m *SchemaManager) CreateTable(ctx context.Context, stmt statement.CreateTable) error {
	return m.conn.Exec(ctx, stmt)
}

func (m *SchemaManager) AlterTable(ctx context.Context, stmt statement.AlterTable) error {
	return m.conn.Exec(ctx, stmt)
}

func (m *SchemaManager) DropTable(ctx context.Context, stmt statement.DropTable) error {
	return m.conn.Exec(ctx, stmt)
}

func (m *SchemaManager) RenameTable(ctx context.Context, stmt statement.RenameTable) error {
	return m.conn.Exec(ctx, stmt)
}

func (m *SchemaManager) TruncateTable(ctx context.Context, stmt statement.TruncateTable) error {
	return m.conn.Exec(ctx, stmt)
}

func (m *SchemaManager) CreateIndex(ctx context.Context, stmt statement.CreateIndex) error {
	return m.conn.Exec(ctx, stmt)
}

func (m *SchemaManager) DropIndex(ctx context.Context, stmt statement.DropIndex) error {
	return m.conn.Exec(ctx, stmt)
}

func (m *SchemaManager) CreateForeignKey(ctx context.Context, stmt statement.CreateForeignKey) error {
	return m.conn.Exec(ctx, stmt)
}

func (m *SchemaManager) DropForeignKey(ctx context.Context, stmt statement.DropForeignKey) error {
	return m.conn.Exec(ctx, stmt)
}

func (m *SchemaManager) CreateType(ctx context.Context, stmt statement.CreateType) error {
	return m.conn.Exec(ctx, stmt)
}

func (m *SchemaManager) AlterType(ctx context.Context, stmt statement.AlterType) error {
	return m.conn.Exec(ctx, stmt)
}

func (m *SchemaManager) DropType(ctx context.Context, stmt statement.DropType) error {
	return m.conn.Exec(ctx, stmt)
}

// HasTable reports whether table exists, via COUNT(*) over the
// dialect's table enumeration filtered by name.
func (m *SchemaManager) HasTable(ctx context.Context, table string) (bool, error) {
	backend := m.conn.Backend()
	sub := queryTables(backend)
	sub.Where = append(sub.Where, statement.Condition{Expr: "table_name = ?", Args: []any{table}})
	outer := statement.Select{
		Columns:      []statement.SelectColumn{{Expr: "COUNT(*)", Alias: "rows"}},
		FromSubquery: &sub,
		SubqueryAs:   "subquery",
	}
	row, ok, err := m.conn.QueryOne(ctx, outer)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, m.conn.LiftError("fail to check table exists")
	}
	rows, err := row.TryGetInt64("rows")
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// HasColumn reports whether table has a column named column.
func (m *SchemaManager) HasColumn(ctx context.Context, table, column string) (bool, error) {
	backend := m.conn.Backend()
	if backend == statement.SQLite {
		rows, err := m.conn.QueryAll(ctx, statement.Raw(fmt.Sprintf("PRAGMA table_info(%s)", table)))
		if err != nil {
			return false, err
		}
		for _, row := range rows {
			name, err := row.TryGetString("name")
			if err != nil {
				return false, err
			}
			if name == column {
				return true, nil
			}
		}
		return false, nil
	}
	sel := statement.Select{
		Columns: []statement.SelectColumn{{Expr: "COUNT(*)", Alias: "rows"}},
		From:    "information_schema.columns",
		Where: []statement.Condition{
			{Expr: "table_schema = " + currentSchemaExpr(backend)},
			{Expr: "table_name = ?", Args: []any{table}},
			{Expr: "column_name = ?", Args: []any{column}},
		},
	}
	row, ok, err := m.conn.QueryOne(ctx, sel)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, m.conn.LiftError("fail to check column exists")
	}
	rowCount, err := row.TryGetInt64("rows")
	if err != nil {
		return false, err
	}
	return rowCount > 0, nil
}
