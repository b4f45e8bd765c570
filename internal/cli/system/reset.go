package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/smokefree/internal/backup"
	"github.com/julianstephens/smokefree/internal/cli"
)

type ResetCmd struct {
	Yes      bool `short:"y" help:"Do not ask for confirmation."`
	NoBackup bool `help:"Skip the safety backup of the SQLite database."`
}

func (c *ResetCmd) Run(ctx *cli.Context) error {
	a, err := ctx.Writable()
	if err != nil {
		return err
	}

	if !c.Yes {
		ok, err := ctx.Confirm("This deletes your quit date, profile, cravings and custom tasks. Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(ctx.Out, "Reset cancelled.")
			return nil
		}
	}

	if a.Backups != nil && !c.NoBackup {
		info, err := a.Backups.Create()
		switch {
		case errors.Is(err, backup.ErrNoDatabase):
		case err != nil:
			return fmt.Errorf("safety backup failed, nothing was reset: %w", err)
		default:
			fmt.Fprintf(ctx.Out, "✓ Backup created: %s\n", info.Name())
		}
	}

	if err := ctx.Saved(a.State.ResetData()); err != nil {
		return err
	}
	fmt.Fprintln(ctx.Out, "✓ All data reset")
	return nil
}
