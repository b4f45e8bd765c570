package backups

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/smokefree/internal/app"
	"github.com/julianstephens/smokefree/internal/cli"
	"github.com/julianstephens/smokefree/internal/constants"
)

var errNotSQLite = errors.New("backups are only available for SQLite storage")

func manager(open func() (*app.App, error)) (*app.App, error) {
	a, err := open()
	if err != nil {
		return nil, err
	}
	if a.Backups == nil {
		return nil, errNotSQLite
	}
	return a, nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *cli.Context) error {
	a, err := manager(ctx.App)
	if err != nil {
		return err
	}
	info, err := a.Backups.Create()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}
	fmt.Fprintf(ctx.Out, "✓ Backup created: %s\n", info.Name())
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *cli.Context) error {
	a, err := manager(ctx.App)
	if err != nil {
		return err
	}
	backups, err := a.Backups.List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		fmt.Fprintln(ctx.Out, "No backups found.")
		fmt.Fprintf(ctx.Out, "Backups are stored in: %s\n", a.Backups.Dir())
		return nil
	}

	fmt.Fprintf(ctx.Out, "Available backups (%d total, keeping most recent %d):\n\n", len(backups), constants.MaxBackups)
	for _, b := range backups {
		fmt.Fprintf(ctx.Out, "  %s  %s  (%.1f KB)\n", b.Timestamp.Format("2006-01-02 15:04:05"), b.Name(), float64(b.Size)/1024.0)
	}
	fmt.Fprintf(ctx.Out, "\nBackup directory: %s\n", a.Backups.Dir())
	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or file name of the backup to restore."`
	Yes        bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *cli.Context) error {
	a, err := manager(ctx.Writable)
	if err != nil {
		return err
	}
	mgr := a.Backups

	path := c.BackupFile
	if _, err := os.Stat(path); err != nil {
		path = mgr.Resolve(filepath.Base(c.BackupFile))
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("backup file not found: tried %s and %s", c.BackupFile, mgr.Dir())
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	if !c.Yes {
		fmt.Fprintln(ctx.Out, "⚠️  This replaces your current data with the backup.")
		fmt.Fprintf(ctx.Out, "\nRestore from: %s\n", path)
		ok, err := ctx.Confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(ctx.Out, "Restore cancelled.")
			return nil
		}
	}

	// The database must be closed before its file is replaced. The lock is
	// held until the restore is done.
	if err := a.CloseStorage(); err != nil {
		fmt.Fprintf(ctx.Err, "Warning: failed to close database connection: %v\n", err)
	}
	defer func() { _ = ctx.Close() }()

	previous, err := mgr.Restore(path)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	if previous != nil {
		fmt.Fprintf(ctx.Out, "✓ Saved the replaced data as %s\n", previous.Name())
	}
	fmt.Fprintln(ctx.Out, "✓ Data restored successfully")
	return nil
}
