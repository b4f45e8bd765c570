package tui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/smokefree/internal/constants"
	"github.com/julianstephens/smokefree/internal/models"
	"github.com/julianstephens/smokefree/internal/state"
)

// Onboarding choices for when the user quit.
const (
	quitNow    = "now"
	quitBefore = "before"
	quitOnDate = "date"
)

// customTrigger marks the "something else" trigger option.
const customTrigger = "\x00custom"

type OnboardingFormModel struct {
	When       string
	Date       string
	Cigarettes string
	Price      string
}

type CravingFormModel struct {
	Intensity int
	Trigger   string
	Custom    string
}

type TaskFormModel struct {
	Title string
	Desc  string
	Icon  string
	Color string
}

type ProfileFormModel struct {
	Cigarettes string
	Price      string
}

// NewOnboardingForm asks when the user quit and how much they smoked.
func NewOnboardingForm(fm *OnboardingFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to smokefree").
				Description("A few questions and your counter starts."),
			huh.NewSelect[string]().
				Title("When did you quit?").
				Options(
					huh.NewOption("Just now", quitNow),
					huh.NewOption(fmt.Sprintf("%d days ago", constants.DefaultBackdateDays), quitBefore),
					huh.NewOption("On a specific date", quitOnDate),
				).
				Value(&fm.When),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Quit date").
				Description("YYYY-MM-DD or YYYY-MM-DD HH:MM").
				Value(&fm.Date).
				Validate(func(s string) error {
					_, err := parseQuitDate(s, time.Local)
					return err
				}),
		).WithHideFunc(func() bool { return fm.When != quitOnDate }),
		huh.NewGroup(
			huh.NewInput().
				Title("Cigarettes per day").
				Value(&fm.Cigarettes).
				Validate(validateCigarettes),
			huh.NewInput().
				Title("Price per pack").
				Value(&fm.Price).
				Validate(validatePrice),
		),
	)
}

func NewCravingForm(fm *CravingFormModel) *huh.Form {
	intensities := make([]huh.Option[int], 0, constants.MaxIntensity)
	for i := constants.MinIntensity; i <= constants.MaxIntensity; i++ {
		intensities = append(intensities, huh.NewOption(fmt.Sprintf("%d  %s", i, models.IntensityLabel(i)), i))
	}

	triggers := []huh.Option[string]{huh.NewOption("No trigger", "")}
	for _, t := range models.QuickTriggers {
		triggers = append(triggers, huh.NewOption(t, t))
	}
	triggers = append(triggers, huh.NewOption("Something else…", customTrigger))

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("How strong is the craving?").
				Options(intensities...).
				Value(&fm.Intensity),
			huh.NewSelect[string]().
				Title("What triggered it?").
				Options(triggers...).
				Value(&fm.Trigger),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Trigger").
				Value(&fm.Custom),
		).WithHideFunc(func() bool { return fm.Trigger != customTrigger }),
	)
}

// trigger resolves the selected or typed trigger; blank means none.
func (fm *CravingFormModel) trigger() *string {
	if fm.Trigger == customTrigger {
		return state.NormalizeTrigger(fm.Custom)
	}
	return state.NormalizeTrigger(fm.Trigger)
}

func NewTaskForm(fm *TaskFormModel) *huh.Form {
	icons := make([]huh.Option[string], 0, len(models.TaskIcons))
	for _, icon := range models.TaskIcons {
		icons = append(icons, huh.NewOption(icon, icon))
	}
	colors := make([]huh.Option[string], 0, len(models.TaskColors))
	for _, c := range models.TaskColors {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c)).Render("■")
		colors = append(colors, huh.NewOption(swatch+" "+c, c))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return state.ErrEmptyTitle
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Lines(3).
				Value(&fm.Desc),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Icon").
				Options(icons...).
				Value(&fm.Icon),
			huh.NewSelect[string]().
				Title("Color").
				Options(colors...).
				Value(&fm.Color),
		),
	)
}

func NewProfileForm(fm *ProfileFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Cigarettes per day").
				Value(&fm.Cigarettes).
				Validate(validateCigarettes),
			huh.NewInput().
				Title("Price per pack").
				Value(&fm.Price).
				Validate(validatePrice),
		),
	)
}

func validateCigarettes(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return errors.New("enter a whole number")
	}
	if n <= 0 {
		return errors.New("must be at least 1")
	}
	return nil
}

func validatePrice(s string) error {
	p, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) {
		return errors.New("enter a price such as 12.50")
	}
	if p <= 0 {
		return errors.New("must be greater than 0")
	}
	return nil
}

func parseQuitDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{constants.DateTimeFormat, constants.DateFormat} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// quitDate resolves the onboarding choice against now.
func (fm *OnboardingFormModel) quitDate(now time.Time) (time.Time, error) {
	switch fm.When {
	case quitBefore:
		return now.AddDate(0, 0, -constants.DefaultBackdateDays), nil
	case quitOnDate:
		return parseQuitDate(fm.Date, now.Location())
	default:
		return now, nil
	}
}

// parseProfile reads the two profile inputs shared by onboarding and editing.
func parseProfile(cigarettes, price string) (int, float64, error) {
	if err := validateCigarettes(cigarettes); err != nil {
		return 0, 0, fmt.Errorf("cigarettes per day: %w", err)
	}
	if err := validatePrice(price); err != nil {
		return 0, 0, fmt.Errorf("price per pack: %w", err)
	}
	n, _ := strconv.Atoi(strings.TrimSpace(cigarettes))
	p, _ := strconv.ParseFloat(strings.TrimSpace(price), 64)
	return n, p, nil
}
