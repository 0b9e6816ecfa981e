package migrator

import (
	"context"
	"log"
	"time"

	"github.com/oarkflow/migrator/statement"
)

// Migrator is the planner: it reconciles a declared, totally-ordered
// list of migration units against the history table recorded on a
// Connection, and drives install/up/down/status/fresh/refresh/reset.
// It performs no fan-out or internal locking; a caller must drive one
// operation to completion before starting another on the same
// connection.
type Migrator struct {
	conn     Connection
	declared []MigrationUnit
}

// New validates that declared has no duplicate names (invariant 4) and
// returns a Migrator bound to conn.
func New(conn Connection, declared []MigrationUnit) (*Migrator, error) {
	seen := make(map[string]bool, len(declared))
	for _, u := range declared {
		if seen[u.Name] {
			return nil, &DuplicateNameError{Name: u.Name}
		}
		seen[u.Name] = true
	}
	return &Migrator{conn: conn, declared: declared}, nil
}

// Install idempotently creates the history table.
func (m *Migrator) Install(ctx context.Context) error {
	return install(ctx, m.conn)
}

// History returns the recorded rows ordered by version ascending.
func (m *Migrator) History(ctx context.Context) ([]HistoryRow, error) {
	return readHistory(ctx, m.conn)
}

// Reconcile pairs declared units with history rows by positional
// index; a name mismatch or a history row with no corresponding
// declared unit is drift (invariants 2 and 3).
func (m *Migrator) Reconcile(ctx context.Context) ([]Reconciled, error) {
	history, err := readHistory(ctx, m.conn)
	if err != nil {
		return nil, err
	}
	out := make([]Reconciled, len(m.declared))
	for i, u := range m.declared {
		out[i] = Reconciled{Unit: u, Status: Pending}
	}
	for i, row := range history {
		if i >= len(out) {
			return nil, &DriftError{Index: i, Declared: "", Recorded: row.Version, Err: m.conn.LiftError(driftMessage(i, "", row.Version))}
		}
		if out[i].Unit.Name != row.Version {
			return nil, &DriftError{Index: i, Declared: out[i].Unit.Name, Recorded: row.Version, Err: m.conn.LiftError(driftMessage(i, out[i].Unit.Name, row.Version))}
		}
		out[i].Status = Applied
	}
	return out, nil
}

func (m *Migrator) Pending(ctx context.Context) ([]MigrationUnit, error) {
	reconciled, err := m.Reconcile(ctx)
	if err != nil {
		return nil, err
	}
	var out []MigrationUnit
	for _, r := range reconciled {
		if r.Status == Pending {
			out = append(out, r.Unit)
		}
	}
	return out, nil
}

func (m *Migrator) Applied(ctx context.Context) ([]MigrationUnit, error) {
	reconciled, err := m.Reconcile(ctx)
	if err != nil {
		return nil, err
	}
	var out []MigrationUnit
	for _, r := range reconciled {
		if r.Status == Applied {
			out = append(out, r.Unit)
		}
	}
	return out, nil
}

// Up applies pending migrations in declared order. steps == nil applies
// all of them; steps == &0 applies none.
func (m *Migrator) Up(ctx context.Context, steps *int) error {
	if err := m.Install(ctx); err != nil {
		return err
	}
	pending, err := m.Pending(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		log.Println("migrator: no pending migrations")
		return nil
	}
	remaining := steps
	manager := NewSchemaManager(m.conn)
	for _, unit := range pending {
		if remaining != nil {
			if *remaining == 0 {
				break
			}
			*remaining--
		}
		log.Printf("migrator: applying migration %q", unit.Name)
		if err := unit.Up(ctx, manager); err != nil {
			return err
		}
		log.Printf("migrator: migration %q applied", unit.Name)
		if err := insertHistory(ctx, m.conn, unit.Name, time.Now().Unix()); err != nil {
			return err
		}
	}
	return nil
}

// Down rolls back applied migrations newest-first.
func (m *Migrator) Down(ctx context.Context, steps *int) error {
	if err := m.Install(ctx); err != nil {
		return err
	}
	applied, err := m.Applied(ctx)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		log.Println("migrator: no applied migrations")
		return nil
	}
	remaining := steps
	manager := NewSchemaManager(m.conn)
	for i := len(applied) - 1; i >= 0; i-- {
		unit := applied[i]
		if remaining != nil {
			if *remaining == 0 {
				break
			}
			*remaining--
		}
		log.Printf("migrator: rolling back migration %q", unit.Name)
		if err := unit.Down(ctx, manager); err != nil {
			return err
		}
		log.Printf("migrator: migration %q rolled back", unit.Name)
		if err := deleteHistory(ctx, m.conn, unit.Name); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) Reset(ctx context.Context) error {
	return m.Down(ctx, nil)
}

func (m *Migrator) Refresh(ctx context.Context) error {
	if err := m.Down(ctx, nil); err != nil {
		return err
	}
	return m.Up(ctx, nil)
}

// Fresh drops every user table, disabling referential-integrity
// checking in a dialect-specific way first, then reapplies every
// declared migration. Order: install; SQLite FK-off; MySQL FK
// enumeration+drop; table enumeration+drop; SQLite FK-on; up(nil).
func (m *Migrator) Fresh(ctx context.Context) error {
	if err := m.Install(ctx); err != nil {
		return err
	}
	backend := m.conn.Backend()

	if backend == statement.SQLite {
		log.Println("migrator: disabling foreign key check")
		if err := m.conn.Exec(ctx, statement.Raw("PRAGMA foreign_keys = OFF")); err != nil {
			return err
		}
		log.Println("migrator: foreign key check disabled")
	}

	if backend == statement.MySQL {
		log.Println("migrator: dropping all foreign keys")
		rows, err := m.conn.QueryAll(ctx, statement.Select{
			Columns: []statement.SelectColumn{{Expr: "table_name"}, {Expr: "constraint_name"}},
			From:    "information_schema.table_constraints",
			Where: []statement.Condition{
				{Expr: "table_schema = " + currentSchemaExpr(backend)},
				{Expr: "constraint_type = ?", Args: []any{"FOREIGN KEY"}},
			},
		})
		if err != nil {
			return err
		}
		for _, row := range rows {
			table, err := row.TryGetString("table_name")
			if err != nil {
				return err
			}
			constraint, err := row.TryGetString("constraint_name")
			if err != nil {
				return err
			}
			log.Printf("migrator: dropping foreign key %q from table %q", constraint, table)
			if err := m.conn.Exec(ctx, statement.DropForeignKey{Table: table, Name: constraint}); err != nil {
				return err
			}
			log.Printf("migrator: foreign key %q dropped", constraint)
		}
		log.Println("migrator: all foreign keys dropped")
	}

	tables, err := m.conn.QueryAll(ctx, queryTables(backend))
	if err != nil {
		return err
	}
	for _, row := range tables {
		name, err := row.TryGetString("table_name")
		if err != nil {
			return err
		}
		log.Printf("migrator: dropping table %q", name)
		if err := m.conn.Exec(ctx, statement.DropTable{Name: name, IfExists: true, Cascade: true}); err != nil {
			return err
		}
		log.Printf("migrator: table %q dropped", name)
	}

	if backend == statement.SQLite {
		log.Println("migrator: restoring foreign key check")
		if err := m.conn.Exec(ctx, statement.Raw("PRAGMA foreign_keys = ON")); err != nil {
			return err
		}
		log.Println("migrator: foreign key check restored")
	}

	return m.Up(ctx, nil)
}

// Status logs each declared unit's name and derived status.
func (m *Migrator) Status(ctx context.Context) error {
	reconciled, err := m.Reconcile(ctx)
	if err != nil {
		return err
	}
	for _, r := range reconciled {
		log.Printf("migrator: migration %q... %s", r.Unit.Name, r.Status)
	}
	return nil
}
