// Package stats derives display metrics from tracked quit data. Every function
// is pure: inputs are never modified and the current time is always passed in.
package stats

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/julianstephens/smokefree/internal/constants"
	"github.com/julianstephens/smokefree/internal/models"
)

// Duration is elapsed time split into display units.
type Duration struct {
	Days    int
	Hours   int // 0-23
	Minutes int // 0-59
	Seconds int // 0-59
}

func (d Duration) String() string {
	return fmt.Sprintf("%dd %02dh %02dm %02ds", d.Days, d.Hours, d.Minutes, d.Seconds)
}

// DaysSince returns the number of whole calendar days from quit to now,
// measured in now's location. It is 0 when quit is nil or not before now.
func DaysSince(quit *time.Time, now time.Time) int {
	if quit == nil {
		return 0
	}
	q := quit.In(now.Location())
	if !q.Before(now) {
		return 0
	}

	y1, m1, d1 := q.Date()
	y2, m2, d2 := now.Date()
	days := int(time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC).Sub(time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)).Hours() / 24)

	// A day only counts once its time of day has come round again.
	if q.AddDate(0, 0, days).After(now) {
		days--
	}
	return max(days, 0)
}

// MoneySaved estimates the money not spent on cigarettes, to two decimals.
func MoneySaved(quit *time.Time, cigarettesPerDay int, pricePerPack float64, now time.Time) string {
	if quit == nil {
		return "0.00"
	}
	days := DaysSince(quit, now)
	daily := pricePerPack / constants.CigarettesPerPack * float64(cigarettesPerDay)
	return fmt.Sprintf("%.2f", float64(days)*daily)
}

// CigarettesAvoided estimates how many cigarettes were not smoked.
func CigarettesAvoided(quit *time.Time, cigarettesPerDay int, now time.Time) int {
	return DaysSince(quit, now) * cigarettesPerDay
}

// Elapsed breaks the whole seconds between quit and now into days, hours,
// minutes and seconds. A nil or future quit date yields zero.
func Elapsed(quit *time.Time, now time.Time) Duration {
	if quit == nil {
		return Duration{}
	}
	total := int64(now.Sub(*quit) / time.Second)
	if total < 0 {
		return Duration{}
	}
	return Duration{
		Days:    int(total / 86400),
		Hours:   int(total % 86400 / 3600),
		Minutes: int(total % 3600 / 60),
		Seconds: int(total % 60),
	}
}

// HoursSince returns fractional hours from quit to now, never negative.
func HoursSince(quit *time.Time, now time.Time) float64 {
	if quit == nil {
		return 0
	}
	return math.Max(now.Sub(*quit).Hours(), 0)
}

// UnlockedMilestones returns the milestones whose threshold has been reached,
// in the order of list.
func UnlockedMilestones(hours float64, list []models.Milestone) []models.Milestone {
	unlocked := []models.Milestone{}
	for _, m := range list {
		if m.Hours <= hours {
			unlocked = append(unlocked, m)
		}
	}
	return unlocked
}

// NextMilestone returns the first milestone in list not yet reached.
func NextMilestone(hours float64, list []models.Milestone) (models.Milestone, bool) {
	for _, m := range list {
		if m.Hours > hours {
			return m, true
		}
	}
	return models.Milestone{}, false
}

// MilestoneProgress is the fraction of m's threshold covered, in [0, 1].
func MilestoneProgress(hours float64, m models.Milestone) float64 {
	if m.Hours <= 0 {
		return 1
	}
	return math.Min(math.Max(hours/m.Hours, 0), 1)
}

// StreakDays is the number of days since quitting minus the number of
// distinct local days on which a craving was logged. It never goes below 0.
func StreakDays(quit *time.Time, cravings []models.CravingLog, now time.Time) int {
	if quit == nil {
		return 0
	}
	days := make(map[string]struct{})
	for _, c := range cravings {
		days[c.Timestamp.In(now.Location()).Format(constants.DateFormat)] = struct{}{}
	}
	return max(DaysSince(quit, now)-len(days), 0)
}

// PeakCravingHour returns the hour of day in loc with the most cravings.
// It needs at least three logs; ties go to the earliest hour.
func PeakCravingHour(cravings []models.CravingLog, loc *time.Location) (int, bool) {
	if len(cravings) < constants.PeakHourMinLogs {
		return 0, false
	}
	var counts [24]int
	for _, c := range cravings {
		counts[c.Timestamp.In(loc).Hour()]++
	}
	peak := 0
	for h := 1; h < 24; h++ {
		if counts[h] > counts[peak] {
			peak = h
		}
	}
	return peak, true
}

// TopTrigger returns the most frequent non-empty trigger. Ties go to the
// lexicographically smallest trigger.
func TopTrigger(cravings []models.CravingLog) (string, bool) {
	counts := make(map[string]int)
	for _, c := range cravings {
		if c.HasTrigger() {
			counts[*c.Trigger]++
		}
	}
	if len(counts) == 0 {
		return "", false
	}

	triggers := make([]string, 0, len(counts))
	for t := range counts {
		triggers = append(triggers, t)
	}
	slices.Sort(triggers)

	top := triggers[0]
	for _, t := range triggers[1:] {
		if counts[t] > counts[top] {
			top = t
		}
	}
	return top, true
}

// AverageIntensity is the mean intensity rounded to one decimal, or 0 for no logs.
func AverageIntensity(cravings []models.CravingLog) float64 {
	if len(cravings) == 0 {
		return 0
	}
	sum := 0
	for _, c := range cravings {
		sum += c.Intensity
	}
	return math.Round(float64(sum)/float64(len(cravings))*10) / 10
}

// TodayCount counts cravings logged on now's local calendar day.
func TodayCount(cravings []models.CravingLog, now time.Time) int {
	y, m, d := now.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	n := 0
	for _, c := range cravings {
		if !c.Timestamp.Before(start) && c.Timestamp.Before(end) {
			n++
		}
	}
	return n
}

// Last7DaysCount counts cravings in the 7x24 hours ending at now.
func Last7DaysCount(cravings []models.CravingLog, now time.Time) int {
	cutoff := now.Add(-7 * 24 * time.Hour)
	n := 0
	for _, c := range cravings {
		if !c.Timestamp.Before(cutoff) && !c.Timestamp.After(now) {
			n++
		}
	}
	return n
}

// Recent returns up to n of the newest cravings.
func Recent(cravings []models.CravingLog, n int) []models.CravingLog {
	if n < 0 {
		n = 0
	}
	return slices.Clone(cravings[:min(n, len(cravings))])
}

// CompletionCount counts completions of taskID.
func CompletionCount(completed []models.CompletedTask, taskID string) int {
	n := 0
	for _, c := range completed {
		if c.TaskID == taskID {
			n++
		}
	}
	return n
}

// FormatHour renders an hour of day as "14:00".
func FormatHour(h int) string {
	return fmt.Sprintf("%d:00", h)
}
