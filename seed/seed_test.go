package seed

import (
	"context"
	"testing"

	"github.com/oarkflow/migrator/migrator"
	"github.com/oarkflow/migrator/statement"
)

func TestCompileProducesOneInsertPerRow(t *testing.T) {
	def := Definition{
		Table: "cake",
		Rows:  3,
		Field: []Field{
			{Name: "flavor", Value: "chiffon"},
			{Name: "id", Fake: "fake_uuid"},
		},
	}
	inserts, err := def.Compile()
	if err != nil {
		t.Fatal(err)
	}
	if len(inserts) != 3 {
		t.Fatalf("want 3 inserts, got %d", len(inserts))
	}
	ids := map[string]bool{}
	for _, ins := range inserts {
		if ins.Table != "cake" {
			t.Fatalf("want table cake, got %s", ins.Table)
		}
		if ins.Values[0] != "chiffon" {
			t.Fatalf("want flavor chiffon, got %v", ins.Values[0])
		}
		id, ok := ins.Values[1].(string)
		if !ok || id == "" {
			t.Fatalf("want a non-empty fake_uuid, got %v", ins.Values[1])
		}
		ids[id] = true
	}
	if len(ids) != 3 {
		t.Fatalf("want 3 distinct generated ids, got %d", len(ids))
	}
}

func TestCompileRejectsUnregisteredFake(t *testing.T) {
	def := Definition{Table: "cake", Rows: 1, Field: []Field{{Name: "x", Fake: "fake_does_not_exist"}}}
	if _, err := def.Compile(); err == nil {
		t.Fatal("expected an error for an unregistered fake function")
	}
}

func TestRunExecutesEveryInsert(t *testing.T) {
	recorder := &execRecorder{}
	manager := migrator.NewSchemaManager(recorder)
	def := Definition{Table: "cake", Rows: 2, Field: []Field{{Name: "flavor", Value: "chiffon"}}}
	if err := Run(context.Background(), manager, def); err != nil {
		t.Fatal(err)
	}
	if len(recorder.execs) != 2 {
		t.Fatalf("want 2 exec calls, got %d", len(recorder.execs))
	}
}

type execRecorder struct {
	execs []statement.Statement
}

func (r *execRecorder) Backend() statement.Backend { return statement.SQLite }

func (r *execRecorder) Exec(ctx context.Context, stmt statement.Statement) error {
	r.execs = append(r.execs, stmt)
	return nil
}

func (r *execRecorder) QueryOne(ctx context.Context, stmt statement.Statement) (migrator.Row, bool, error) {
	return nil, false, nil
}

func (r *execRecorder) QueryAll(ctx context.Context, stmt statement.Statement) ([]migrator.Row, error) {
	return nil, nil
}

func (r *execRecorder) LiftError(msg string) error {
	return &migrator.ErrMissingRow{Reason: msg}
}
