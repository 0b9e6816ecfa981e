package manifest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oarkflow/migrator/migrator"
	"github.com/oarkflow/migrator/statement"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "m.bcl")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

const cakeManifest = `
Migration "m1_create_cake" {
  Version = "1.0.0"
  Description = "Create cake table."
  Up {
    CreateTable "cake" {
      if_not_exist = true
      Column "id" {
        type = "number"
        primary_key = true
      }
      Column "name" {
        type = "string"
      }
    }
  }
  Down {
    DropTable "cake" {
      if_exists = true
    }
  }
}
`

func TestLoadCompilesCreateAndDropTable(t *testing.T) {
	path := writeManifest(t, cakeManifest)
	unit, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if unit.Name != "m1_create_cake" {
		t.Fatalf("want unit name m1_create_cake, got %s", unit.Name)
	}

	recorder := &execRecorder{}
	manager := migrator.NewSchemaManager(recorder)
	ctx := context.Background()
	if err := unit.Up(ctx, manager); err != nil {
		t.Fatal(err)
	}
	if len(recorder.execs) != 1 {
		t.Fatalf("want 1 exec call, got %d", len(recorder.execs))
	}
	if _, ok := recorder.execs[0].(statement.CreateTable); !ok {
		t.Fatalf("want CreateTable, got %T", recorder.execs[0])
	}

	recorder.execs = nil
	if err := unit.Down(ctx, manager); err != nil {
		t.Fatal(err)
	}
	if len(recorder.execs) != 1 {
		t.Fatalf("want 1 exec call, got %d", len(recorder.execs))
	}
	if _, ok := recorder.execs[0].(statement.DropTable); !ok {
		t.Fatalf("want DropTable, got %T", recorder.execs[0])
	}
}

func TestLoadRejectsMultipleMigrationBlocks(t *testing.T) {
	path := writeManifest(t, cakeManifest+cakeManifest)
	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for a manifest declaring two Migration blocks")
	}
}

func TestScaffoldCreateTable(t *testing.T) {
	out := Scaffold("create_shop_table")
	if !strings.Contains(out, "CreateTable \"shop\"") {
		t.Fatalf("want CreateTable shop, got %s", out)
	}
	if !strings.Contains(out, "DropTable \"shop\"") {
		t.Fatalf("want DropTable shop in Down, got %s", out)
	}
}

func TestScaffoldDefaultForUnrecognizedName(t *testing.T) {
	out := Scaffold("something")
	if !strings.Contains(out, "New migration") {
		t.Fatalf("want default template, got %s", out)
	}
}

// execRecorder is a minimal migrator.Connection that records every
// Exec call without interpreting it, enough to assert manifest.Load
// compiled the right statement.Statement shapes.
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
