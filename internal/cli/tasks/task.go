package tasks

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/smokefree/internal/cli"
	"github.com/julianstephens/smokefree/internal/models"
	"github.com/julianstephens/smokefree/internal/state"
	"github.com/julianstephens/smokefree/internal/stats"
)

type TaskListCmd struct{}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	st, err := ctx.State()
	if err != nil {
		return err
	}
	snap := st.Snapshot()
	if len(snap.Tasks) == 0 {
		fmt.Fprintln(ctx.Out, "No tasks. Add one with 'smokefree task add'.")
		return nil
	}

	fmt.Fprintln(ctx.Out, cli.Heading("Distraction tasks"))
	for _, t := range snap.Tasks {
		kind := "built-in"
		if t.IsCustom {
			kind = "custom"
		}
		fmt.Fprintf(ctx.Out, "  %-36s  %-24s  done %d×  %s\n",
			t.ID, t.Title, stats.CompletionCount(snap.CompletedTasks, t.ID), cli.Muted(kind))
		if t.Desc != "" {
			fmt.Fprintf(ctx.Out, "  %-36s  %s\n", "", cli.Muted(t.Desc))
		}
	}
	return nil
}

type TaskAddCmd struct {
	Title string `arg:"" help:"Task title."`
	Desc  string `short:"d" help:"Short description."`
	Icon  string `short:"i" help:"Icon name." default:"leaf"`
	Color string `short:"c" help:"Accent color (hex)." default:"#10B981"`
}

func (c *TaskAddCmd) Validate() error {
	if err := state.ValidateNewTask(c.Title, c.Icon, c.Color); err != nil {
		return fmt.Errorf("%w (icons: %s; colors: %s)", err,
			strings.Join(models.TaskIcons, ", "), strings.Join(models.TaskColors, ", "))
	}
	return nil
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	st, err := ctx.WritableState()
	if err != nil {
		return err
	}
	task, err := st.AddTask(strings.TrimSpace(c.Title), strings.TrimSpace(c.Desc), c.Icon, c.Color)
	if err := ctx.Saved(err); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "✓ Added task %q (%s)\n", task.Title, task.ID)
	return nil
}

type TaskEditCmd struct {
	ID    string  `arg:"" help:"ID of the custom task to edit."`
	Title *string `help:"New title."`
	Desc  *string `help:"New description."`
	Icon  *string `help:"New icon name."`
	Color *string `help:"New accent color (hex)."`
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	patch := models.TaskPatch{Title: c.Title, Desc: c.Desc, Icon: c.Icon, Color: c.Color}
	if patch.IsEmpty() {
		return errors.New("nothing to change: pass at least one of --title, --desc, --icon, --color")
	}

	st, err := ctx.WritableState()
	if err != nil {
		return err
	}
	if err := ctx.Saved(state.EditCustomTask(st, c.ID, patch)); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "✓ Updated task %s\n", c.ID)
	return nil
}

type TaskDeleteCmd struct {
	ID string `arg:"" help:"ID of the custom task to delete."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	st, err := ctx.WritableState()
	if err != nil {
		return err
	}
	if err := ctx.Saved(state.DeleteCustomTask(st, c.ID)); err != nil {
		return err
	}
	fmt.Fprintf(ctx.Out, "✓ Deleted task %s\n", c.ID)
	return nil
}

type TaskCompleteCmd struct {
	ID string `arg:"" help:"ID of the task you just did."`
}

func (c *TaskCompleteCmd) Run(ctx *cli.Context) error {
	st, err := ctx.WritableState()
	if err != nil {
		return err
	}
	task, ok := st.Snapshot().FindTask(c.ID)
	if !ok {
		return fmt.Errorf("%w: %s", state.ErrTaskNotFound, c.ID)
	}

	_, err = st.CompleteTask(task.ID)
	if err := ctx.Saved(err); err != nil {
		return err
	}
	done := stats.CompletionCount(st.Snapshot().CompletedTasks, task.ID)
	fmt.Fprintf(ctx.Out, "✓ Nice work: %s (completed %d×)\n", task.Title, done)
	return nil
}
