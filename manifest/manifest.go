// Package manifest loads declarative, file-based migration definitions
// and compiles them into migrator.MigrationUnit values, so a host can
// author migrations either in Go or in a .bcl manifest without
// duplicating statement-building logic: both paths funnel through the
// same statement.Statement/SchemaManager surface.
package manifest

import (
	"context"
	"fmt"
	"os"

	"github.com/oarkflow/bcl"

	"github.com/oarkflow/migrator/migrator"
	"github.com/oarkflow/migrator/statement"
)

// Config is the root of a manifest file: exactly one Migration block.
type Config struct {
	Migrations []Migration `json:"Migration"`
}

// Migration mirrors a single declared migration unit: a name and the
// operations to run going Up and coming back Down.
type Migration struct {
	Name        string      `json:"name"`
	Version     string      `json:"Version"`
	Description string      `json:"Description"`
	Up          []Operation `json:"Up"`
	Down        []Operation `json:"Down"`
}

// Operation groups every manifest statement kind that may appear inside
// an Up or Down block. A single Operation may populate more than one
// field; they run in the field order below.
type Operation struct {
	CreateTable  []CreateTable  `json:"CreateTable"`
	AlterTable   []AlterTable   `json:"AlterTable"`
	DropTable    []DropTable    `json:"DropTable"`
	RenameTable  []RenameTable  `json:"RenameTable"`
	DeleteData   []DeleteData   `json:"DeleteData"`
	DropEnumType []DropEnumType `json:"DropEnumType"`
}

type Column struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	Size          int    `json:"size"`
	IsNullable    bool   `json:"is_nullable"`
	Default       string `json:"default"`
	Check         string `json:"check"`
	PrimaryKey    bool   `json:"primary_key"`
	AutoIncrement bool   `json:"auto_increment"`
	Unique        bool   `json:"unique"`
	Index         bool   `json:"index"`
}

func (c Column) compile() statement.Column {
	return statement.Column{
		Name:          c.Name,
		Type:          c.Type,
		Size:          c.Size,
		Nullable:      c.IsNullable,
		Default:       c.Default,
		Check:         c.Check,
		PrimaryKey:    c.PrimaryKey,
		AutoIncrement: c.AutoIncrement,
		Unique:        c.Unique,
		Index:         c.Index,
	}
}

type CreateTable struct {
	Name       string   `json:"name"`
	IfNotExist bool     `json:"if_not_exist"`
	Columns    []Column `json:"Column"`
	PrimaryKey []string `json:"primary_key"`
}

type DropColumn struct {
	Name string `json:"name"`
}

type RenameColumn struct {
	From string `json:"from"`
	To   string `json:"to"`
	Type string `json:"type"`
}

// AlterTable gathers every column-level alteration requested for one
// table. Each entry compiles to its own statement.AlterTable, since the
// underlying builder only ever performs one action per call (see
// statement.AlterTable).
type AlterTable struct {
	Name         string         `json:"name"`
	AddColumn    []Column       `json:"AddColumn"`
	DropColumn   []DropColumn   `json:"DropColumn"`
	RenameColumn []RenameColumn `json:"RenameColumn"`
}

type DropTable struct {
	Name     string `json:"name"`
	IfExists bool   `json:"if_exists"`
	Cascade  bool   `json:"cascade"`
}

type RenameTable struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
}

// DeleteData deletes rows matching Where (a single SQL predicate with
// "?" placeholders, translated to the target backend the same way any
// other statement.Condition is).
type DeleteData struct {
	Table string `json:"table"`
	Where string `json:"where"`
	Args  []any  `json:"args"`
}

type DropEnumType struct {
	Name     string `json:"name"`
	IfExists bool   `json:"if_exists"`
}

// Load reads the manifest file at path, parses it with bcl.Unmarshal,
// and compiles its single Migration into a migrator.MigrationUnit. The
// returned unit's Up and Down closures replay the file's operations
// against whatever SchemaManager they are called with, each time they
// run, so one manifest can drive any of the three backends without
// re-parsing.
func Load(path string) (migrator.MigrationUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return migrator.MigrationUnit{}, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	var cfg Config
	if _, err := bcl.Unmarshal(data, &cfg); err != nil {
		return migrator.MigrationUnit{}, fmt.Errorf("manifest: parse %s: %w", path, err)
	}
	if len(cfg.Migrations) != 1 {
		return migrator.MigrationUnit{}, fmt.Errorf("manifest: %s must declare exactly one Migration block, found %d", path, len(cfg.Migrations))
	}
	mig := cfg.Migrations[0]
	if mig.Name == "" {
		return migrator.MigrationUnit{}, fmt.Errorf("manifest: %s: Migration block has no name", path)
	}
	up := mig.Up
	down := mig.Down
	return migrator.MigrationUnit{
		Name: mig.Name,
		Up: func(ctx context.Context, m *migrator.SchemaManager) error {
			return runOperations(ctx, m, up)
		},
		Down: func(ctx context.Context, m *migrator.SchemaManager) error {
			return runOperations(ctx, m, down)
		},
	}, nil
}

func runOperations(ctx context.Context, m *migrator.SchemaManager, ops []Operation) error {
	for _, op := range ops {
		for _, ct := range op.CreateTable {
			cols := make([]statement.Column, len(ct.Columns))
			for i, c := range ct.Columns {
				cols[i] = c.compile()
			}
			stmt := statement.CreateTable{Name: ct.Name, IfNotExist: ct.IfNotExist, Columns: cols, PrimaryKey: ct.PrimaryKey}
			if err := m.CreateTable(ctx, stmt); err != nil {
				return fmt.Errorf("manifest: CreateTable %q: %w", ct.Name, err)
			}
		}
		for _, at := range op.AlterTable {
			for _, add := range at.AddColumn {
				col := add.compile()
				if err := m.AlterTable(ctx, statement.AlterTable{Name: at.Name, AddColumn: &col}); err != nil {
					return fmt.Errorf("manifest: AlterTable %q AddColumn %q: %w", at.Name, add.Name, err)
				}
			}
			for _, drop := range at.DropColumn {
				if err := m.AlterTable(ctx, statement.AlterTable{Name: at.Name, DropColumn: drop.Name}); err != nil {
					return fmt.Errorf("manifest: AlterTable %q DropColumn %q: %w", at.Name, drop.Name, err)
				}
			}
			for _, rc := range at.RenameColumn {
				op := &statement.RenameColumnOp{From: rc.From, To: rc.To, Type: rc.Type}
				if err := m.AlterTable(ctx, statement.AlterTable{Name: at.Name, RenameColumn: op}); err != nil {
					return fmt.Errorf("manifest: AlterTable %q RenameColumn %q->%q: %w", at.Name, rc.From, rc.To, err)
				}
			}
		}
		for _, dt := range op.DropTable {
			if err := m.DropTable(ctx, statement.DropTable{Name: dt.Name, IfExists: dt.IfExists, Cascade: dt.Cascade}); err != nil {
				return fmt.Errorf("manifest: DropTable %q: %w", dt.Name, err)
			}
		}
		for _, rt := range op.RenameTable {
			if err := m.RenameTable(ctx, statement.RenameTable{OldName: rt.OldName, NewName: rt.NewName}); err != nil {
				return fmt.Errorf("manifest: RenameTable %q->%q: %w", rt.OldName, rt.NewName, err)
			}
		}
		for _, dd := range op.DeleteData {
			del := statement.Delete{Table: dd.Table, Where: []statement.Condition{{Expr: dd.Where, Args: dd.Args}}}
			if err := m.Exec(ctx, del); err != nil {
				return fmt.Errorf("manifest: DeleteData from %q: %w", dd.Table, err)
			}
		}
		for _, de := range op.DropEnumType {
			if err := m.DropType(ctx, statement.DropType{Name: de.Name, IfExists: de.IfExists}); err != nil {
				return fmt.Errorf("manifest: DropEnumType %q: %w", de.Name, err)
			}
		}
	}
	return nil
}
