package system

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/smokefree/internal/backup"
	"github.com/julianstephens/smokefree/internal/cli"
	"github.com/julianstephens/smokefree/internal/logger"
	"github.com/julianstephens/smokefree/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	a, err := ctx.OpenExclusive(true)
	if err != nil {
		return err
	}

	if a.Backups != nil {
		if _, err := a.Backups.Create(); err != nil && !errors.Is(err, backup.ErrNoDatabase) {
			logger.Warn("Automatic backup failed", "error", err)
		}
	}

	// Reminders fire while the dashboard is open.
	remindCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := a.Reminders.Run(remindCtx); err != nil {
			logger.Warn("Reminder loop stopped", "error", err)
		}
	}()

	p := tea.NewProgram(tui.NewModel(a, ctx.Now), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
