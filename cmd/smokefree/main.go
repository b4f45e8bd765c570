package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/smokefree/internal/cli"
	"github.com/julianstephens/smokefree/internal/cli/backups"
	"github.com/julianstephens/smokefree/internal/cli/cravings"
	"github.com/julianstephens/smokefree/internal/cli/reminders"
	"github.com/julianstephens/smokefree/internal/cli/system"
	"github.com/julianstephens/smokefree/internal/cli/tasks"
	"github.com/julianstephens/smokefree/internal/config"
	"github.com/julianstephens/smokefree/internal/constants"
	clierrors "github.com/julianstephens/smokefree/internal/errors"
	"github.com/julianstephens/smokefree/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path. Storage, log level and reminders are read from it." type:"string" default:"${config_path}"`
	Debug   bool   `help:"Enable debug logging."`

	Tui        system.TuiCmd        `cmd:"" help:"Launch the interactive dashboard." default:"1"`
	Quit       system.QuitCmd       `cmd:"" help:"Set, backdate or clear your quit date."`
	Profile    system.ProfileCmd    `cmd:"" help:"Show or update cigarettes per day and price per pack."`
	Status     system.StatusCmd     `cmd:"" help:"Show your progress summary."`
	Milestones system.MilestonesCmd `cmd:"" help:"Show health milestones."`
	Reset      system.ResetCmd      `cmd:"" help:"Erase all tracked data."`
	Craving    struct {
		Log      cravings.CravingLogCmd      `cmd:"" help:"Log a craving." default:"withargs"`
		List     cravings.CravingListCmd     `cmd:"" help:"List recent cravings."`
		Insights cravings.CravingInsightsCmd `cmd:"" help:"Show craving patterns."`
	} `cmd:"" help:"Log and review cravings."`
	Task struct {
		List     tasks.TaskListCmd     `cmd:"" help:"List distraction tasks."`
		Add      tasks.TaskAddCmd      `cmd:"" help:"Add a custom task."`
		Edit     tasks.TaskEditCmd     `cmd:"" help:"Edit a custom task."`
		Delete   tasks.TaskDeleteCmd   `cmd:"" help:"Delete a custom task."`
		Complete tasks.TaskCompleteCmd `cmd:"" help:"Record a task completion."`
	} `cmd:"" help:"Manage distraction tasks."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a PostgreSQL connection string in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored connection string with the password masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
		Status system.KeyringStatusCmd `cmd:"" help:"Report keyring availability."`
	} `cmd:"" help:"Manage the database connection string in the OS keyring."`
	Remind struct {
		Add    reminders.RemindAddCmd    `cmd:"" help:"Add a daily reminder."`
		List   reminders.RemindListCmd   `cmd:"" help:"List daily reminders."`
		Remove reminders.RemindRemoveCmd `cmd:"" help:"Remove a daily reminder."`
		Now    reminders.RemindNowCmd    `cmd:"" help:"Send a notification immediately."`
		Run    reminders.RemindRunCmd    `cmd:"" help:"Deliver daily reminders until interrupted."`
	} `cmd:"" help:"Manage reminder notifications."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Quit-smoking companion: quit counter, craving log and health milestones"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"config_path":    config.DefaultPath(),
			"reminder_title": constants.DefaultReminderTitle,
			"reminder_body":  constants.DefaultReminderBody,
		},
	)

	cfg, err := config.Load(CLI.Config)
	switch {
	case errors.Is(err, config.ErrMalformed):
		clierrors.Warn(fmt.Errorf("%w; using defaults", err))
	case err != nil:
		clierrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug || cfg.Debug,
		Level:     cfg.LogLevel,
		ConfigDir: cfg.Dir(),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	appCtx := cli.NewContext(cfg, os.Stdout, os.Stderr, os.Stdin)
	err = ctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	clierrors.Fatal(err)
}
