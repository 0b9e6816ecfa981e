package migrator

import (
	"context"
	"errors"
	"testing"

	"github.com/oarkflow/migrator/statement"
)

func cakeUnit() MigrationUnit {
	return MigrationUnit{
		Name: "m1_create_cake",
		Up: func(ctx context.Context, m *SchemaManager) error {
			return m.CreateTable(ctx, statement.CreateTable{
				Name:       "cake",
				IfNotExist: true,
				Columns: []statement.Column{
					{Name: "id", Type: "number", PrimaryKey: true},
					{Name: "name", Type: "string"},
				},
			})
		},
		Down: func(ctx context.Context, m *SchemaManager) error {
			return m.DropTable(ctx, statement.DropTable{Name: "cake", IfExists: true})
		},
	}
}

func fruitUnit() MigrationUnit {
	return MigrationUnit{
		Name: "m2_create_fruit",
		Up: func(ctx context.Context, m *SchemaManager) error {
			return m.CreateTable(ctx, statement.CreateTable{Name: "fruit", Columns: []statement.Column{{Name: "id", Type: "number"}}})
		},
		Down: func(ctx context.Context, m *SchemaManager) error {
			return m.DropTable(ctx, statement.DropTable{Name: "fruit", IfExists: true})
		},
	}
}

func TestStatusAllPending(t *testing.T) {
	conn := newFakeConnection(statement.SQLite)
	m, err := New(conn, []MigrationUnit{cakeUnit(), fruitUnit()})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := m.Status(ctx); err != nil {
		t.Fatal(err)
	}
	pending, err := m.Pending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Fatalf("want 2 pending, got %d", len(pending))
	}
}

func TestUpThenDownEmptiesHistory(t *testing.T) {
	conn := newFakeConnection(statement.SQLite)
	m, err := New(conn, []MigrationUnit{cakeUnit(), fruitUnit()})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := m.Up(ctx, nil); err != nil {
		t.Fatal(err)
	}
	history, err := m.History(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("want 2 history rows, got %d", len(history))
	}
	ok, err := NewSchemaManager(conn).HasTable(ctx, "cake")
	if err != nil || !ok {
		t.Fatalf("expected cake table to exist: ok=%v err=%v", ok, err)
	}
	if err := m.Down(ctx, nil); err != nil {
		t.Fatal(err)
	}
	history, err = m.History(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Fatalf("want empty history after down, got %d", len(history))
	}
}

func TestStepDown(t *testing.T) {
	conn := newFakeConnection(statement.SQLite)
	m, err := New(conn, []MigrationUnit{cakeUnit(), fruitUnit()})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := m.Up(ctx, nil); err != nil {
		t.Fatal(err)
	}
	one := 1
	if err := m.Down(ctx, &one); err != nil {
		t.Fatal(err)
	}
	history, err := m.History(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Version != "m1_create_cake" {
		t.Fatalf("expected only m1_create_cake to remain applied, got %+v", history)
	}
}

func TestReconcileDetectsDrift(t *testing.T) {
	conn := newFakeConnection(statement.SQLite)
	m, err := New(conn, []MigrationUnit{cakeUnit(), fruitUnit()})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := m.Up(ctx, nil); err != nil {
		t.Fatal(err)
	}
	// Drop m2 from the declared list, simulating a migration file that
	// disappeared after being applied.
	drifted, err := New(conn, []MigrationUnit{cakeUnit()})
	if err != nil {
		t.Fatal(err)
	}
	_, err = drifted.Reconcile(ctx)
	var driftErr *DriftError
	if !errors.As(err, &driftErr) {
		t.Fatalf("expected DriftError, got %v", err)
	}
	if driftErr.Index != 1 || driftErr.Recorded != "m2_create_fruit" {
		t.Fatalf("unexpected drift error: %+v", driftErr)
	}
}

func TestDuplicateNameRejected(t *testing.T) {
	_, err := New(newFakeConnection(statement.SQLite), []MigrationUnit{cakeUnit(), cakeUnit()})
	var dupErr *DuplicateNameError
	if !errors.As(err, &dupErr) {
		t.Fatalf("expected DuplicateNameError, got %v", err)
	}
}

func TestStepsZeroAppliesNothing(t *testing.T) {
	conn := newFakeConnection(statement.SQLite)
	m, err := New(conn, []MigrationUnit{cakeUnit()})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	zero := 0
	if err := m.Up(ctx, &zero); err != nil {
		t.Fatal(err)
	}
	history, err := m.History(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 0 {
		t.Fatalf("want no migrations applied with steps=0, got %d", len(history))
	}
}

func TestFreshRebuildsSchemaAndHistory(t *testing.T) {
	conn := newFakeConnection(statement.MySQL)
	m, err := New(conn, []MigrationUnit{cakeUnit(), fruitUnit()})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := m.Up(ctx, nil); err != nil {
		t.Fatal(err)
	}
	// Preload an unrelated table and a foreign key, as in a preexisting
	// database fresh() needs to clear before reapplying.
	if err := conn.Exec(ctx, statement.CreateTable{Name: "orphan", Columns: []statement.Column{{Name: "id", Type: "number"}}}); err != nil {
		t.Fatal(err)
	}
	conn.fkRows = append(conn.fkRows, fakeForeignKey{Table: "fruit", Constraint: "fk_fruit_cake"})

	if err := m.Fresh(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok := conn.tables["orphan"]; ok {
		t.Fatal("expected orphan table to be dropped by fresh")
	}
	if len(conn.fkRows) != 0 {
		t.Fatal("expected foreign keys to be dropped by fresh")
	}
	history, err := m.History(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("expected both migrations reapplied after fresh, got %d", len(history))
	}
}

func TestHasColumnSQLitePragma(t *testing.T) {
	conn := newFakeConnection(statement.SQLite)
	m, err := New(conn, []MigrationUnit{cakeUnit()})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if err := m.Up(ctx, nil); err != nil {
		t.Fatal(err)
	}
	manager := NewSchemaManager(conn)
	ok, err := manager.HasColumn(ctx, "cake", "name")
	if err != nil || !ok {
		t.Fatalf("expected cake.name to exist: ok=%v err=%v", ok, err)
	}
	ok, err = manager.HasColumn(ctx, "cake", "missing")
	if err != nil || ok {
		t.Fatalf("expected cake.missing to not exist: ok=%v err=%v", ok, err)
	}
}
