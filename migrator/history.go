package migrator

import (
	"context"

	"github.com/oarkflow/migrator/statement"
)

const historyTable = "seaql_migrations"

// HistoryRow is one recorded application of a migration unit. Version
// equals the unit's Name; AppliedAt is Unix epoch seconds at insert
// time, not used for ordering (history is always read ordered by
// version).
type HistoryRow struct {
	Version   string
	AppliedAt int64
}

func installStatement() statement.CreateTable {
	return statement.CreateTable{
		Name:       historyTable,
		IfNotExist: true,
		Columns: []statement.Column{
			{Name: "version", Type: "string", Nullable: false, PrimaryKey: true},
			{Name: "applied_at", Type: "BIGINT", Nullable: false},
		},
	}
}

func install(ctx context.Context, conn Connection) error {
	return conn.Exec(ctx, installStatement())
}

// readHistory selects version/applied_at ordered by version ascending,
// matching invariant 2 (history, ordered by version, is a prefix of
// the declared list by name and by index).
func readHistory(ctx context.Context, conn Connection) ([]HistoryRow, error) {
	if err := install(ctx, conn); err != nil {
		return nil, err
	}
	sel := statement.Select{
		Columns: []statement.SelectColumn{{Expr: "version"}, {Expr: "applied_at"}},
		From:    historyTable,
		OrderBy: []statement.OrderBy{{Column: "version"}},
	}
	rows, err := conn.QueryAll(ctx, sel)
	if err != nil {
		return nil, err
	}
	out := make([]HistoryRow, len(rows))
	for i, row := range rows {
		version, err := row.TryGetString("version")
		if err != nil {
			return nil, err
		}
		appliedAt, err := row.TryGetInt64("applied_at")
		if err != nil {
			return nil, err
		}
		out[i] = HistoryRow{Version: version, AppliedAt: appliedAt}
	}
	return out, nil
}

func insertHistory(ctx context.Context, conn Connection, version string, appliedAt int64) error {
	return conn.Exec(ctx, statement.Insert{
		Table:   historyTable,
		Columns: []string{"version", "applied_at"},
		Values:  []any{version, appliedAt},
	})
}

func deleteHistory(ctx context.Context, conn Connection, version string) error {
	return conn.Exec(ctx, statement.Delete{
		Table: historyTable,
		Where: []statement.Condition{{Expr: "version = ?", Args: []any{version}}},
	})
}
