package system

import (
	"errors"
	"fmt"
	"math"

	"github.com/julianstephens/smokefree/internal/cli"
)

type ProfileCmd struct {
	Cigarettes int     `short:"c" help:"Cigarettes smoked per day before quitting."`
	Price      float64 `short:"p" help:"Price of one pack of 20."`
}

func (c *ProfileCmd) Validate() error {
	if c.Cigarettes < 0 {
		return errors.New("--cigarettes cannot be negative")
	}
	if c.Price < 0 || math.IsNaN(c.Price) || math.IsInf(c.Price, 0) {
		return errors.New("--price must be a non-negative number")
	}
	return nil
}

func (c *ProfileCmd) Run(ctx *cli.Context) error {
	open := ctx.State
	if c.Cigarettes > 0 || c.Price > 0 {
		open = ctx.WritableState
	}
	st, err := open()
	if err != nil {
		return err
	}

	if c.Cigarettes > 0 {
		if err := ctx.Saved(st.SetCigarettesPerDay(c.Cigarettes)); err != nil {
			return err
		}
	}
	if c.Price > 0 {
		if err := ctx.Saved(st.SetPricePerPack(c.Price)); err != nil {
			return err
		}
	}

	p := st.Snapshot().Profile
	fmt.Fprintln(ctx.Out, cli.Heading("Smoking profile"))
	fmt.Fprintf(ctx.Out, "  Cigarettes per day: %d\n", p.CigarettesPerDay)
	fmt.Fprintf(ctx.Out, "  Price per pack:     %.2f\n", p.PricePerPack)
	return nil
}
