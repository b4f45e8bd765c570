package stats

import (
	"time"

	"github.com/julianstephens/smokefree/internal/models"
)

// Data is the tracked state a Summary is computed from.
type Data struct {
	QuitDate       *time.Time
	Profile        models.Profile
	Cravings       []models.CravingLog // newest first
	CompletedTasks []models.CompletedTask
}

// Summary gathers every dashboard metric for one point in time.
type Summary struct {
	Quit              bool
	Elapsed           Duration
	Days              int
	HoursSince        float64
	MoneySaved        string
	CigarettesAvoided int
	Streak            int

	Unlocked     []models.Milestone
	Next         models.Milestone
	HasNext      bool
	NextProgress float64

	TotalCravings    int
	TodayCravings    int
	WeekCravings     int
	AverageIntensity float64
	PeakHour         int
	HasPeakHour      bool
	TopTrigger       string
	HasTopTrigger    bool

	TasksCompleted int
}

// Summarize computes a Summary from snap at now. Local days and hours are
// taken in now's location.
func Summarize(snap Data, now time.Time) Summary {
	milestones := models.Milestones()
	hours := HoursSince(snap.QuitDate, now)

	s := Summary{
		Quit:              snap.QuitDate != nil,
		Elapsed:           Elapsed(snap.QuitDate, now),
		Days:              DaysSince(snap.QuitDate, now),
		HoursSince:        hours,
		MoneySaved:        MoneySaved(snap.QuitDate, snap.Profile.CigarettesPerDay, snap.Profile.PricePerPack, now),
		CigarettesAvoided: CigarettesAvoided(snap.QuitDate, snap.Profile.CigarettesPerDay, now),
		Streak:            StreakDays(snap.QuitDate, snap.Cravings, now),
		Unlocked:          UnlockedMilestones(hours, milestones),
		TotalCravings:     len(snap.Cravings),
		TodayCravings:     TodayCount(snap.Cravings, now),
		WeekCravings:      Last7DaysCount(snap.Cravings, now),
		AverageIntensity:  AverageIntensity(snap.Cravings),
		TasksCompleted:    len(snap.CompletedTasks),
	}
	s.Next, s.HasNext = NextMilestone(hours, milestones)
	if s.HasNext {
		s.NextProgress = MilestoneProgress(hours, s.Next)
	}
	s.PeakHour, s.HasPeakHour = PeakCravingHour(snap.Cravings, now.Location())
	s.TopTrigger, s.HasTopTrigger = TopTrigger(snap.Cravings)
	return s
}
