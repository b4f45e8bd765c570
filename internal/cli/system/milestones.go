package system

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"

	"github.com/julianstephens/smokefree/internal/cli"
	"github.com/julianstephens/smokefree/internal/models"
	"github.com/julianstephens/smokefree/internal/stats"
)

type MilestonesCmd struct{}

func (c *MilestonesCmd) Run(ctx *cli.Context) error {
	st, err := ctx.State()
	if err != nil {
		return err
	}
	snap := st.Snapshot()
	hours := stats.HoursSince(snap.QuitDate, ctx.Now())
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(24))

	fmt.Fprintln(ctx.Out, cli.Heading("Health milestones"))
	for _, m := range models.Milestones() {
		if m.Hours <= hours && snap.HasQuitDate() {
			fmt.Fprintf(ctx.Out, "  ✓ %-12s %s\n", m.Title, m.Description)
			continue
		}
		fmt.Fprintf(ctx.Out, "  ○ %-12s %s %s\n", m.Title, bar.ViewAs(stats.MilestoneProgress(hours, m)), cli.Muted(m.Description))
	}
	return nil
}
