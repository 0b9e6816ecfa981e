package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/oarkflow/cli/contracts"

	"github.com/oarkflow/migrator/manifest"
	"github.com/oarkflow/migrator/migrator"
)

// stepsOption parses the "--step=<n>" option shared by migrate:up and
// migrate:down; an empty option means "all".
func stepsOption(ctx contracts.Context) (*int, error) {
	raw := ctx.Option("step")
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid --step value %q: %w", raw, err)
	}
	return &n, nil
}

type UpCommand struct {
	extend contracts.Extend
	Manager *Manager
}

func (c *UpCommand) Signature() string    { return "migrate:up" }
func (c *UpCommand) Description() string  { return "Applies pending migrations, optionally limited by --step." }
func (c *UpCommand) Extend() contracts.Extend { return c.extend }

func (c *UpCommand) Handle(ctx contracts.Context) error {
	steps, err := stepsOption(ctx)
	if err != nil {
		return err
	}
	return c.Manager.withLock(func(ctx context.Context) error {
		return c.Manager.engine.Up(ctx, steps)
	})
}

type DownCommand struct {
	extend contracts.Extend
	Manager *Manager
}

func (c *DownCommand) Signature() string    { return "migrate:down" }
func (c *DownCommand) Description() string  { return "Rolls back applied migrations, optionally limited by --step." }
func (c *DownCommand) Extend() contracts.Extend { return c.extend }

func (c *DownCommand) Handle(ctx contracts.Context) error {
	steps, err := stepsOption(ctx)
	if err != nil {
		return err
	}
	return c.Manager.withLock(func(ctx context.Context) error {
		return c.Manager.engine.Down(ctx, steps)
	})
}

type FreshCommand struct {
	extend contracts.Extend
	Manager *Manager
}

func (c *FreshCommand) Signature() string    { return "migrate:fresh" }
func (c *FreshCommand) Description() string  { return "Drops every table and reapplies all migrations from scratch." }
func (c *FreshCommand) Extend() contracts.Extend { return c.extend }

func (c *FreshCommand) Handle(ctx contracts.Context) error {
	return c.Manager.withLock(func(ctx context.Context) error {
		return c.Manager.engine.Fresh(ctx)
	})
}

type RefreshCommand struct {
	extend contracts.Extend
	Manager *Manager
}

func (c *RefreshCommand) Signature() string    { return "migrate:refresh" }
func (c *RefreshCommand) Description() string  { return "Rolls back all migrations, then reapplies all of them." }
func (c *RefreshCommand) Extend() contracts.Extend { return c.extend }

func (c *RefreshCommand) Handle(ctx contracts.Context) error {
	return c.Manager.withLock(func(ctx context.Context) error {
		return c.Manager.engine.Refresh(ctx)
	})
}

type ResetCommand struct {
	extend contracts.Extend
	Manager *Manager
}

func (c *ResetCommand) Signature() string    { return "migrate:reset" }
func (c *ResetCommand) Description() string  { return "Rolls back every applied migration." }
func (c *ResetCommand) Extend() contracts.Extend { return c.extend }

func (c *ResetCommand) Handle(ctx contracts.Context) error {
	return c.Manager.withLock(func(ctx context.Context) error {
		return c.Manager.engine.Reset(ctx)
	})
}

type StatusCommand struct {
	extend contracts.Extend
	Manager *Manager
}

func (c *StatusCommand) Signature() string    { return "migrate:status" }
func (c *StatusCommand) Description() string  { return "Lists every declared migration and whether it is applied or pending." }
func (c *StatusCommand) Extend() contracts.Extend { return c.extend }

func (c *StatusCommand) Handle(ctx contracts.Context) error {
	background := context.Background()
	reconciled, err := c.Manager.engine.Reconcile(background)
	if err != nil {
		return err
	}
	history, err := c.Manager.engine.History(background)
	if err != nil {
		return err
	}
	appliedAt := make(map[string]int64, len(history))
	for _, h := range history {
		appliedAt[h.Version] = h.AppliedAt
	}
	for _, r := range reconciled {
		if r.Status == migrator.Applied {
			at := appliedAt[r.Unit.Name]
			fmt.Printf("%s ... applied at %d (%s)\n", r.Unit.Name, at, humanize.Time(time.Unix(at, 0)))
		} else {
			fmt.Printf("%s ... pending\n", r.Unit.Name)
		}
	}
	return nil
}

type MakeMigrationCommand struct {
	extend contracts.Extend
	Manager *Manager
}

func (c *MakeMigrationCommand) Signature() string    { return "make:migration" }
func (c *MakeMigrationCommand) Description() string  { return "Creates a new manifest file in the migration directory." }
func (c *MakeMigrationCommand) Extend() contracts.Extend { return c.extend }

func (c *MakeMigrationCommand) Handle(ctx contracts.Context) error {
	name := ctx.Argument(0)
	if name == "" {
		return errors.New("migration name is required")
	}
	path, err := manifest.WriteScaffold(c.Manager.migrationDir, name)
	if err != nil {
		return err
	}
	fmt.Printf("migration file created: %s\n", path)
	return nil
}
