package migrator

import "github.com/oarkflow/migrator/statement"

// queryTables builds the dialect-specific enumeration of user tables,
// projected as a single aliased column "table_name".
func queryTables(backend statement.Backend) statement.Select {
	switch backend {
	case statement.MySQL:
		return statement.Select{
			Columns: []statement.SelectColumn{{Expr: "table_name", Alias: "table_name"}},
			From:    "information_schema.tables",
			Where: []statement.Condition{
				{Expr: "table_schema = " + currentSchemaExpr(backend)},
			},
		}
	case statement.Postgres:
		return statement.Select{
			Columns: []statement.SelectColumn{{Expr: "table_name", Alias: "table_name"}},
			From:    "information_schema.tables",
			Where: []statement.Condition{
				{Expr: "table_schema = " + currentSchemaExpr(backend)},
				{Expr: "table_type = ?", Args: []any{"BASE TABLE"}},
			},
		}
	default: // SQLite
		return statement.Select{
			Columns: []statement.SelectColumn{{Expr: "name", Alias: "table_name"}},
			From:    "sqlite_master",
			Where: []statement.Condition{
				{Expr: "type = ?", Args: []any{"table"}},
				{Expr: "name <> ?", Args: []any{"sqlite_sequence"}},
			},
		}
	}
}

// currentSchemaExpr renders the backend's current-schema expression
// for embedding directly into a WHERE clause; MySQL and Postgres spell
// it differently and SQLite has no notion of a current schema (it is
// never called for SQLite since queryTables doesn't reference it).
func currentSchemaExpr(backend statement.Backend) string {
	if backend == statement.MySQL {
		return "DATABASE()"
	}
	return "CURRENT_SCHEMA()"
}
