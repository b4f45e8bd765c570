package system

import (
	"fmt"

	"github.com/julianstephens/smokefree/internal/cli"
	"github.com/julianstephens/smokefree/internal/stats"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	st, err := ctx.State()
	if err != nil {
		return err
	}
	snap := st.Snapshot()
	s := stats.Summarize(stats.Data{
		QuitDate:       snap.QuitDate,
		Profile:        snap.Profile,
		Cravings:       snap.Cravings,
		CompletedTasks: snap.CompletedTasks,
	}, ctx.Now())

	if !s.Quit {
		fmt.Fprintln(ctx.Out, "No quit date set yet. Run 'smokefree quit' to start the counter.")
		return nil
	}

	fmt.Fprintln(ctx.Out, cli.Heading("Smoke-free for "+s.Elapsed.String()))
	fmt.Fprintf(ctx.Out, "  Quit date:          %s\n", cli.FormatQuitDate(snap.QuitDate))
	fmt.Fprintf(ctx.Out, "  Money saved:        %s\n", s.MoneySaved)
	fmt.Fprintf(ctx.Out, "  Cigarettes avoided: %d\n", s.CigarettesAvoided)
	fmt.Fprintf(ctx.Out, "  Craving-free days:  %d\n", s.Streak)
	fmt.Fprintf(ctx.Out, "  Cravings today:     %d (last 7 days: %d)\n", s.TodayCravings, s.WeekCravings)
	fmt.Fprintf(ctx.Out, "  Tasks completed:    %d\n", s.TasksCompleted)
	if s.HasNext {
		fmt.Fprintf(ctx.Out, "  Next milestone:     %s (%.0f%%)\n", s.Next.Title, s.NextProgress*100)
	} else {
		fmt.Fprintln(ctx.Out, "  Every milestone unlocked!")
	}
	return nil
}
