// Package seed compiles declarative seed-row definitions into
// statement.Insert values, run through a *migrator.SchemaManager the
// same way any other unit operation is. Seed rows are ordinary inserts,
// not tracked by the history table separately from the migration unit
// that runs them.
package seed

import (
	"context"
	"fmt"

	"github.com/oarkflow/bcl"

	"github.com/oarkflow/migrator/migrator"
	"github.com/oarkflow/migrator/statement"
)

// Field describes one column of a seeded row. If Fake names a
// registered bcl function (e.g. "fake_name", "fake_email"), that
// function is called once per row and its result used for that row;
// otherwise Value is used verbatim for every row.
type Field struct {
	Name  string
	Value any
	Fake  string
}

// Definition describes Rows copies of the same column set inserted
// into Table.
type Definition struct {
	Table string
	Rows  int
	Field []Field
}

// Compile renders Definition into one statement.Insert per row. Fake
// fields are evaluated once per row, so repeated rows get independent
// generated values, not a single value copied Rows times.
func (d Definition) Compile() ([]statement.Insert, error) {
	if d.Table == "" {
		return nil, fmt.Errorf("seed: Definition has no Table")
	}
	inserts := make([]statement.Insert, 0, d.Rows)
	for i := 0; i < d.Rows; i++ {
		cols := make([]string, len(d.Field))
		vals := make([]any, len(d.Field))
		for j, f := range d.Field {
			cols[j] = f.Name
			v, err := f.resolve()
			if err != nil {
				return nil, fmt.Errorf("seed: table %q row %d field %q: %w", d.Table, i, f.Name, err)
			}
			vals[j] = v
		}
		inserts = append(inserts, statement.Insert{Table: d.Table, Columns: cols, Values: vals})
	}
	return inserts, nil
}

func (f Field) resolve() (any, error) {
	if f.Fake == "" {
		return f.Value, nil
	}
	fn, ok := bcl.LookupFunction(f.Fake)
	if !ok {
		return nil, fmt.Errorf("unregistered fake function %q", f.Fake)
	}
	return fn()
}

// Run compiles def and executes every row's Insert through manager.
func Run(ctx context.Context, manager *migrator.SchemaManager, def Definition) error {
	inserts, err := def.Compile()
	if err != nil {
		return err
	}
	for _, ins := range inserts {
		if err := manager.Exec(ctx, ins); err != nil {
			return fmt.Errorf("seed: insert into %q: %w", def.Table, err)
		}
	}
	return nil
}
