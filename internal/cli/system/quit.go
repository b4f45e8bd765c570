package system

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/smokefree/internal/cli"
	"github.com/julianstephens/smokefree/internal/constants"
)

type QuitCmd struct {
	At      string `help:"Quit time as RFC3339 or local 'YYYY-MM-DD HH:MM'." xor:"when"`
	DaysAgo int    `help:"Backdate the quit date by N days from now." xor:"when"`
	Clear   bool   `help:"Remove the quit date." xor:"when"`
}

func (c *QuitCmd) Validate() error {
	if c.DaysAgo < 0 {
		return errors.New("--days-ago cannot be negative")
	}
	return nil
}

func (c *QuitCmd) Run(ctx *cli.Context) error {
	st, err := ctx.WritableState()
	if err != nil {
		return err
	}

	if c.Clear {
		if err := ctx.Saved(st.SetQuitDate(nil)); err != nil {
			return err
		}
		fmt.Fprintln(ctx.Out, "✓ Quit date cleared")
		return nil
	}

	when, err := c.resolve(ctx.Now())
	if err != nil {
		return err
	}
	if err := ctx.Saved(st.SetQuitDate(&when)); err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "✓ Quit date set to %s\n", when.Local().Format(constants.DateTimeFormat))
	if when.After(ctx.Now()) {
		fmt.Fprintln(ctx.Out, cli.Muted("  That is in the future; the counter starts once it arrives."))
	}
	return nil
}

func (c *QuitCmd) resolve(now time.Time) (time.Time, error) {
	at := strings.TrimSpace(c.At)
	switch {
	case at != "":
		return ParseWhen(at)
	case c.DaysAgo > 0:
		return now.AddDate(0, 0, -c.DaysAgo), nil
	default:
		return now, nil
	}
}

// ParseWhen accepts RFC3339, a local date-time, or a local date (midnight).
func ParseWhen(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(constants.DateTimeFormat, s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(constants.DateFormat, s, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q: use RFC3339, %q or %q", s, constants.DateTimeFormat, constants.DateFormat)
}
