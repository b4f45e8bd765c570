package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/smokefree/internal/cli"
	"github.com/julianstephens/smokefree/internal/constants"
	"github.com/julianstephens/smokefree/internal/keyring"
	"github.com/julianstephens/smokefree/internal/kv/postgres"
)

// KeyringSetCmd stores the PostgreSQL connection string in the OS keyring.
type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"PostgreSQL connection string to store."`
	Use              bool   `help:"Also switch storage to the keyring in the config file."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if err := postgres.ValidateConnString(cmd.ConnectionString); err != nil && !errors.Is(err, postgres.ErrEmbeddedCredentials) {
		return err
	}
	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}
	fmt.Fprintln(ctx.Out, "✓ Connection string stored in OS keyring")

	if cmd.Use {
		ctx.Config.Storage = constants.StorageKeyring
		if err := ctx.SaveConfig(); err != nil {
			return err
		}
		fmt.Fprintf(ctx.Out, "✓ Storage set to %q in %s\n", constants.StorageKeyring, ctx.Config.Path())
	} else if !ctx.Config.UsesKeyring() {
		fmt.Fprintf(ctx.Out, "  Set storage = %q in the config (or pass --use) to connect with it.\n", constants.StorageKeyring)
	}
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if errors.Is(err, keyring.ErrNotFound) {
		return errors.New("no connection string found in keyring; use 'smokefree keyring set' to store one")
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.Out, keyring.Redact(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	fmt.Fprintln(ctx.Out, "✓ Connection string deleted from OS keyring")
	if ctx.Config.UsesKeyring() {
		fmt.Fprintln(ctx.Out, "  Storage still points at the keyring; update the config before the next run.")
	}
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	status := keyring.CurrentStatus()
	fmt.Fprintf(ctx.Out, "OS keyring: %s\n", status)
	if !status.Available {
		return errors.New("keyring unavailable")
	}
	return nil
}
