package migrator

import (
	"context"
	"fmt"
	"sort"

	"github.com/oarkflow/migrator/statement"
)

// fakeConnection is a minimal in-memory Connection used by this
// package's tests. It interprets the small vocabulary of statements
// the engine itself issues (CreateTable/DropTable/Insert/Delete/Select/
// Raw PRAGMA) structurally, by type-switching on the concrete
// statement.Statement rather than parsing SQL text (there is no SQL
// engine here, only enough behavior to drive install/up/down/
// reconcile/fresh against a fake schema).
type fakeConnection struct {
	backend statement.Backend
	tables  map[string]*fakeTable
	fkRows  []fakeForeignKey // seeded before calling Fresh to emulate MySQL's information_schema.table_constraints
}

type fakeTable struct {
	columns []string
	rows    []map[string]any
}

type fakeForeignKey struct {
	Table      string
	Constraint string
}

func newFakeConnection(backend statement.Backend) *fakeConnection {
	return &fakeConnection{backend: backend, tables: make(map[string]*fakeTable)}
}

func (c *fakeConnection) Backend() statement.Backend { return c.backend }

func (c *fakeConnection) LiftError(msg string) error { return &ErrMissingRow{Reason: msg} }

func (c *fakeConnection) Exec(ctx context.Context, stmt statement.Statement) error {
	switch s := stmt.(type) {
	case statement.CreateTable:
		if _, ok := c.tables[s.Name]; ok && s.IfNotExist {
			return nil
		}
		cols := make([]string, len(s.Columns))
		for i, col := range s.Columns {
			cols[i] = col.Name
		}
		c.tables[s.Name] = &fakeTable{columns: cols}
		return nil
	case statement.DropTable:
		delete(c.tables, s.Name)
		return nil
	case statement.Insert:
		t, ok := c.tables[s.Table]
		if !ok {
			return fmt.Errorf("fake: insert into unknown table %q", s.Table)
		}
		row := make(map[string]any, len(s.Columns))
		for i, col := range s.Columns {
			row[col] = s.Values[i]
		}
		t.rows = append(t.rows, row)
		return nil
	case statement.Delete:
		t, ok := c.tables[s.Table]
		if !ok {
			return fmt.Errorf("fake: delete from unknown table %q", s.Table)
		}
		if len(s.Where) != 1 {
			return fmt.Errorf("fake: delete supports exactly one WHERE condition")
		}
		col, val := conditionEquality(s.Where[0])
		var kept []map[string]any
		for _, row := range t.rows {
			if fmt.Sprintf("%v", row[col]) != fmt.Sprintf("%v", val) {
				kept = append(kept, row)
			}
		}
		t.rows = kept
		return nil
	case statement.DropForeignKey:
		var kept []fakeForeignKey
		for _, fk := range c.fkRows {
			if fk.Table == s.Table && fk.Constraint == s.Name {
				continue
			}
			kept = append(kept, fk)
		}
		c.fkRows = kept
		return nil
	case statement.Raw:
		return nil // PRAGMA foreign_keys = ON/OFF: no-op in the fake
	default:
		return fmt.Errorf("fake: unsupported Exec statement %T", stmt)
	}
}

func (c *fakeConnection) QueryOne(ctx context.Context, stmt statement.Statement) (Row, bool, error) {
	rows, err := c.QueryAll(ctx, stmt)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0], true, nil
}

func (c *fakeConnection) QueryAll(ctx context.Context, stmt statement.Statement) ([]Row, error) {
	switch s := stmt.(type) {
	case statement.Select:
		return c.querySelect(s)
	case statement.Raw:
		return c.queryRaw(string(s))
	default:
		return nil, fmt.Errorf("fake: unsupported QueryAll statement %T", stmt)
	}
}

func (c *fakeConnection) querySelect(s statement.Select) ([]Row, error) {
	switch {
	case s.From == historyTable:
		t := c.tables[historyTable]
		var out []Row
		if t != nil {
			for _, row := range t.rows {
				out = append(out, fakeRow(row))
			}
		}
		sort.Slice(out, func(i, j int) bool {
			return out[i].(fakeRow)["version"].(string) < out[j].(fakeRow)["version"].(string)
		})
		return out, nil
	case s.From == "information_schema.tables" || s.From == "sqlite_master":
		var names []string
		for name := range c.tables {
			names = append(names, name)
		}
		sort.Strings(names)
		if nameFilter, ok := findEqualityFilter(s.Where, "table_name"); ok {
			var out []Row
			for _, n := range names {
				if n == nameFilter {
					out = append(out, fakeRow{"table_name": n})
				}
			}
			return out, nil
		}
		out := make([]Row, len(names))
		for i, n := range names {
			out[i] = fakeRow{"table_name": n}
		}
		return out, nil
	case s.From == "information_schema.columns":
		table, _ := findEqualityFilter(s.Where, "table_name")
		column, _ := findEqualityFilter(s.Where, "column_name")
		count := 0
		if t, ok := c.tables[table]; ok {
			for _, col := range t.columns {
				if col == column {
					count++
				}
			}
		}
		return []Row{fakeRow{"rows": int64(count)}}, nil
	case s.From == "information_schema.table_constraints":
		var out []Row
		for _, fk := range c.fkRows {
			out = append(out, fakeRow{"table_name": fk.Table, "constraint_name": fk.Constraint})
		}
		return out, nil
	case s.FromSubquery != nil:
		// HasTable: outer COUNT(*) over a queryTables subquery filtered
		// by table_name equality.
		rows, err := c.querySelect(*s.FromSubquery)
		if err != nil {
			return nil, err
		}
		return []Row{fakeRow{"rows": int64(len(rows))}}, nil
	default:
		return nil, fmt.Errorf("fake: unsupported Select from %q", s.From)
	}
}

func (c *fakeConnection) queryRaw(sql string) ([]Row, error) {
	var tableName string
	if n, err := fmt.Sscanf(sql, "PRAGMA table_info(%s", &tableName); n == 1 && err == nil {
		tableName = tableName[:len(tableName)-1] // trailing ')'
		t, ok := c.tables[tableName]
		if !ok {
			return nil, nil
		}
		out := make([]Row, len(t.columns))
		for i, col := range t.columns {
			out[i] = fakeRow{"name": col}
		}
		return out, nil
	}
	return nil, nil // PRAGMA foreign_keys toggles: no rows
}

type fakeRow map[string]any

func (r fakeRow) TryGetString(column string) (string, error) {
	v, ok := r[column]
	if !ok {
		return "", fmt.Errorf("fake: column %q missing", column)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("fake: column %q is not a string", column)
	}
	return s, nil
}

func (r fakeRow) TryGetInt64(column string) (int64, error) {
	v, ok := r[column]
	if !ok {
		return 0, fmt.Errorf("fake: column %q missing", column)
	}
	n, ok := v.(int64)
	if !ok {
		return 0, fmt.Errorf("fake: column %q is not an int64", column)
	}
	return n, nil
}

func conditionEquality(cond statement.Condition) (column string, value any) {
	var col string
	fmt.Sscanf(cond.Expr, "%s =", &col)
	if len(cond.Args) == 1 {
		return col, cond.Args[0]
	}
	return col, nil
}

func findEqualityFilter(conds []statement.Condition, column string) (string, bool) {
	for _, cond := range conds {
		col, val := conditionEquality(cond)
		if col == column {
			if s, ok := val.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}
