package statement

import (
	"errors"
	"strings"
	"testing"
)

func TestCreateTableDialects(t *testing.T) {
	ct := CreateTable{
		Name:       "cake",
		IfNotExist: true,
		Columns: []Column{
			{Name: "id", Type: "number", PrimaryKey: true, AutoIncrement: true},
			{Name: "name", Type: "string", Size: 64},
		},
	}
	cases := map[Backend]string{
		MySQL:    "`id`",
		Postgres: `"id"`,
		SQLite:   `"id"`,
	}
	for backend, wantIdent := range cases {
		sql, params, err := ct.Build(backend)
		if err != nil {
			t.Fatalf("%v: %v", backend, err)
		}
		if params != nil {
			t.Fatalf("%v: DDL should carry no params, got %v", backend, params)
		}
		if !strings.Contains(sql, wantIdent) {
			t.Fatalf("%v: want identifier %s in %s", backend, wantIdent, sql)
		}
		if !strings.HasPrefix(sql, "CREATE TABLE IF NOT EXISTS") {
			t.Fatalf("%v: want IF NOT EXISTS clause, got %s", backend, sql)
		}
	}
}

func TestDropTableCascadeOmittedForSQLite(t *testing.T) {
	dt := DropTable{Name: "cake", IfExists: true, Cascade: true}
	sql, _, _ := dt.Build(SQLite)
	if strings.Contains(sql, "CASCADE") {
		t.Fatalf("SQLite DROP TABLE must not include CASCADE, got %s", sql)
	}
	sql, _, _ = dt.Build(Postgres)
	if !strings.Contains(sql, "CASCADE") {
		t.Fatalf("Postgres DROP TABLE should include CASCADE, got %s", sql)
	}
}

func TestAlterTableRequiresExactlyOneAction(t *testing.T) {
	_, _, err := AlterTable{Name: "cake"}.Build(Postgres)
	if err == nil {
		t.Fatal("expected error when no action is set")
	}
	col := Column{Name: "price", Type: "number"}
	_, _, err = AlterTable{Name: "cake", AddColumn: &col, DropColumn: "name"}.Build(Postgres)
	if err == nil {
		t.Fatal("expected error when two actions are set")
	}
}

func TestAlterTableRenameColumnMySQLRequiresType(t *testing.T) {
	rc := &RenameColumnOp{From: "old", To: "new"}
	_, _, err := AlterTable{Name: "cake", RenameColumn: rc}.Build(MySQL)
	if err == nil {
		t.Fatal("expected error: MySQL rename requires a type")
	}
	rc.Type = "VARCHAR(64)"
	sql, _, err := AlterTable{Name: "cake", RenameColumn: rc}.Build(MySQL)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sql, "CHANGE") {
		t.Fatalf("want CHANGE syntax, got %s", sql)
	}
}

func TestAlterTableSQLiteUnsupportedActions(t *testing.T) {
	_, _, err := AlterTable{Name: "cake", DropColumn: "name"}.Build(SQLite)
	if err == nil {
		t.Fatal("expected SQLite DROP COLUMN to fail")
	}
	_, _, err = AlterTable{Name: "cake", RenameColumn: &RenameColumnOp{From: "a", To: "b"}}.Build(SQLite)
	if err == nil {
		t.Fatal("expected SQLite RENAME COLUMN to fail")
	}
}

func TestCreateTypeUnsupportedOutsidePostgres(t *testing.T) {
	ct := CreateType{Name: "mood", Values: []string{"happy", "sad"}}
	if _, _, err := ct.Build(MySQL); !errors.Is(err, ErrUnsupportedForBackend) {
		t.Fatalf("want ErrUnsupportedForBackend, got %v", err)
	}
	if _, _, err := ct.Build(SQLite); !errors.Is(err, ErrUnsupportedForBackend) {
		t.Fatalf("want ErrUnsupportedForBackend, got %v", err)
	}
	sql, _, err := ct.Build(Postgres)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sql, "CREATE TYPE") {
		t.Fatalf("want CREATE TYPE, got %s", sql)
	}
}

func TestSelectSubqueryPlaceholderNumberingPostgres(t *testing.T) {
	inner := Select{
		Columns: []SelectColumn{{Expr: "table_name", Alias: "table_name"}},
		From:    "information_schema.tables",
		Where:   []Condition{{Expr: "table_name = ?", Args: []any{"cake"}}},
	}
	outer := Select{
		Columns:      []SelectColumn{{Expr: "COUNT(*)", Alias: "rows"}},
		FromSubquery: &inner,
		SubqueryAs:   "subquery",
		Where:        []Condition{{Expr: "rows > ?", Args: []any{0}}},
	}
	sql, params, err := outer.Build(Postgres)
	if err != nil {
		t.Fatal(err)
	}
	if len(params) != 2 || params[0] != "cake" || params[1] != 0 {
		t.Fatalf("want params [cake 0], got %v", params)
	}
	if !strings.Contains(sql, "$1") || !strings.Contains(sql, "$2") {
		t.Fatalf("want sequentially numbered placeholders across subquery and outer WHERE, got %s", sql)
	}
	if strings.Count(sql, "$1") != 1 || strings.Count(sql, "$2") != 1 {
		t.Fatalf("want each placeholder number to appear exactly once, got %s", sql)
	}
}

func TestInsertMySQLUsesQuestionMarks(t *testing.T) {
	ins := Insert{Table: "cake", Columns: []string{"id", "name"}, Values: []any{1, "chiffon"}}
	sql, params, err := ins.Build(MySQL)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Count(sql, "?") != 2 {
		t.Fatalf("want two placeholders, got %s", sql)
	}
	if len(params) != 2 {
		t.Fatalf("want two params, got %v", params)
	}
}

func TestInsertColumnValueMismatch(t *testing.T) {
	ins := Insert{Table: "cake", Columns: []string{"id"}, Values: []any{1, 2}}
	if _, _, err := ins.Build(MySQL); err == nil {
		t.Fatal("expected error on column/value count mismatch")
	}
}

func TestForeignKeyUnsupportedOnSQLite(t *testing.T) {
	fk := CreateForeignKey{Name: "fk_cake_shop", Table: "cake", Column: "shop_id", ReferenceTable: "shop", ReferenceColumn: "id"}
	if _, _, err := fk.Build(SQLite); err == nil {
		t.Fatal("expected SQLite to reject adding a foreign key after table creation")
	}
}

func TestDropForeignKeySyntaxPerBackend(t *testing.T) {
	drop := DropForeignKey{Table: "cake", Name: "fk_cake_shop"}
	sql, _, err := drop.Build(MySQL)
	if err != nil || !strings.Contains(sql, "DROP FOREIGN KEY") {
		t.Fatalf("MySQL: %s, %v", sql, err)
	}
	sql, _, err = drop.Build(Postgres)
	if err != nil || !strings.Contains(sql, "DROP CONSTRAINT") {
		t.Fatalf("Postgres: %s, %v", sql, err)
	}
	if _, _, err := drop.Build(SQLite); err == nil {
		t.Fatal("expected SQLite to reject dropping a named foreign key")
	}
}
