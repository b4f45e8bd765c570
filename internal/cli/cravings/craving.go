package cravings

import (
	"fmt"
	"strings"

	"github.com/julianstephens/smokefree/internal/cli"
	"github.com/julianstephens/smokefree/internal/constants"
	"github.com/julianstephens/smokefree/internal/models"
	"github.com/julianstephens/smokefree/internal/state"
	"github.com/julianstephens/smokefree/internal/stats"
)

type CravingLogCmd struct {
	Intensity int    `arg:"" help:"How strong the craving is, 1 (mild) to 5 (extreme)."`
	Trigger   string `short:"t" help:"What set it off, e.g. Stress, Coffee, Alcohol."`
}

func (c *CravingLogCmd) Validate() error {
	return state.ValidateIntensity(c.Intensity)
}

func (c *CravingLogCmd) Run(ctx *cli.Context) error {
	st, err := ctx.WritableState()
	if err != nil {
		return err
	}

	entry, err := st.LogCraving(c.Intensity, state.NormalizeTrigger(c.Trigger))
	if err := ctx.Saved(err); err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "✓ Logged a %s craving", strings.ToLower(models.IntensityLabel(entry.Intensity)))
	if entry.HasTrigger() {
		fmt.Fprintf(ctx.Out, " (%s)", *entry.Trigger)
	}
	fmt.Fprintln(ctx.Out)
	ctx.Suggest(st.Snapshot().Tasks)
	return nil
}

type CravingListCmd struct {
	Limit int `short:"n" help:"Number of cravings to show." default:"10"`
}

func (c *CravingListCmd) Run(ctx *cli.Context) error {
	st, err := ctx.State()
	if err != nil {
		return err
	}
	all := st.Snapshot().Cravings
	if len(all) == 0 {
		fmt.Fprintln(ctx.Out, "No cravings logged. Keep it up!")
		return nil
	}

	recent := stats.Recent(all, c.Limit)
	fmt.Fprintln(ctx.Out, cli.Heading(fmt.Sprintf("Recent cravings (%d of %d)", len(recent), len(all))))
	for _, log := range recent {
		trigger := log.TriggerOrEmpty()
		if trigger == "" {
			trigger = cli.Muted("-")
		}
		fmt.Fprintf(ctx.Out, "  %s  %d %-9s %s\n",
			log.Timestamp.Local().Format(constants.DateTimeFormat),
			log.Intensity, models.IntensityLabel(log.Intensity), trigger)
	}
	return nil
}

type CravingInsightsCmd struct{}

func (c *CravingInsightsCmd) Run(ctx *cli.Context) error {
	st, err := ctx.State()
	if err != nil {
		return err
	}
	logs := st.Snapshot().Cravings
	now := ctx.Now()

	fmt.Fprintln(ctx.Out, cli.Heading("Craving insights"))
	fmt.Fprintf(ctx.Out, "  Total logged:      %d\n", len(logs))
	fmt.Fprintf(ctx.Out, "  Today:             %d\n", stats.TodayCount(logs, now))
	fmt.Fprintf(ctx.Out, "  Last 7 days:       %d\n", stats.Last7DaysCount(logs, now))
	fmt.Fprintf(ctx.Out, "  Average intensity: %.1f\n", stats.AverageIntensity(logs))

	if h, ok := stats.PeakCravingHour(logs, now.Location()); ok {
		fmt.Fprintf(ctx.Out, "  Peak hour:         %s\n", stats.FormatHour(h))
	} else {
		fmt.Fprintf(ctx.Out, "  Peak hour:         %s\n", cli.Muted(fmt.Sprintf("needs %d logs", constants.PeakHourMinLogs)))
	}
	if t, ok := stats.TopTrigger(logs); ok {
		fmt.Fprintf(ctx.Out, "  Top trigger:       %s\n", t)
	}
	return nil
}
