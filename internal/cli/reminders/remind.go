package reminders

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/julianstephens/smokefree/internal/cli"
	"github.com/julianstephens/smokefree/internal/constants"
	"github.com/julianstephens/smokefree/internal/logger"
	"github.com/julianstephens/smokefree/internal/models"
	"github.com/julianstephens/smokefree/internal/notifier"
	"github.com/julianstephens/smokefree/internal/reminder"
)

type RemindAddCmd struct {
	At    string `arg:"" help:"Time of day, HH:MM (24h)."`
	Title string `short:"t" help:"Notification title." default:"${reminder_title}"`
	Body  string `short:"b" help:"Notification body." default:"${reminder_body}"`
}

func (c *RemindAddCmd) Run(ctx *cli.Context) error {
	hour, minute, err := cli.ParseClock(c.At)
	if err != nil {
		return err
	}
	r := models.Reminder{Title: c.Title, Body: c.Body, Hour: hour, Minute: minute}
	if err := reminder.Validate(r); err != nil {
		return err
	}

	ctx.Config.Reminders = append(ctx.Config.Reminders, r)
	if err := ctx.SaveConfig(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "✓ Daily reminder %q at %02d:%02d\n", r.Title, r.Hour, r.Minute)
	fmt.Fprintln(ctx.Out, cli.Muted("  Reminders fire while 'smokefree remind run' is running."))
	return nil
}

type RemindListCmd struct{}

func (c *RemindListCmd) Run(ctx *cli.Context) error {
	if len(ctx.Config.Reminders) == 0 {
		fmt.Fprintln(ctx.Out, "No reminders configured.")
		return nil
	}
	now := ctx.Now()
	fmt.Fprintln(ctx.Out, cli.Heading("Daily reminders"))
	for i, r := range ctx.Config.Reminders {
		next := reminder.NextFire(now, r.Hour, r.Minute)
		fmt.Fprintf(ctx.Out, "  %d. %02d:%02d  %s  %s\n", i+1, r.Hour, r.Minute, r.Title,
			cli.Muted("next "+next.Format(constants.DateTimeFormat)))
	}
	if !ctx.Config.Notifications.Enabled {
		fmt.Fprintln(ctx.Out, cli.Muted("  Notifications are disabled in the config."))
	}
	return nil
}

type RemindRemoveCmd struct {
	Index int `arg:"" help:"Number shown by 'smokefree remind list'."`
}

func (c *RemindRemoveCmd) Run(ctx *cli.Context) error {
	if c.Index < 1 || c.Index > len(ctx.Config.Reminders) {
		return fmt.Errorf("no reminder #%d (have %d)", c.Index, len(ctx.Config.Reminders))
	}
	removed := ctx.Config.Reminders[c.Index-1]
	ctx.Config.Reminders = slices.Delete(slices.Clone(ctx.Config.Reminders), c.Index-1, c.Index)
	if err := ctx.SaveConfig(); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "✓ Removed reminder %q\n", removed.Title)
	return nil
}

// RemindNowCmd sends a notification immediately.
type RemindNowCmd struct {
	Title string `arg:"" optional:"" help:"Notification title." default:"${reminder_title}"`
	Body  string `short:"b" help:"Notification body." default:"${reminder_body}"`
}

func (c *RemindNowCmd) Run(ctx *cli.Context) error {
	n := notifier.New()
	n.SetEnabled(ctx.Config.Notifications.Enabled)
	if err := reminder.New(n).ScheduleInstantReminder(context.Background(), c.Title, c.Body); err != nil {
		return fmt.Errorf("notification failed: %w", err)
	}
	fmt.Fprintln(ctx.Out, "✓ Reminder sent")
	return nil
}

// RemindRunCmd runs the reminder loop in the foreground until interrupted.
type RemindRunCmd struct{}

func (c *RemindRunCmd) Run(ctx *cli.Context) error {
	a, err := ctx.OpenExclusive(false)
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	count := len(a.Reminders.Reminders())
	fmt.Fprintf(ctx.Out, "Running %d reminder(s); press Ctrl+C to stop.\n", count)
	logger.Info("Reminder daemon started", "reminders", count)

	if err := a.Reminders.Run(runCtx); err != nil {
		return err
	}
	logger.Info("Reminder daemon stopped")
	return nil
}
