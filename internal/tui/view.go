package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/smokefree/internal/constants"
	"github.com/julianstephens/smokefree/internal/models"
	"github.com/julianstephens/smokefree/internal/stats"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.loaded {
		return docStyle.Render("Loading…")
	}

	var content string
	switch m.state {
	case constants.StateDashboard:
		content = m.viewDashboard()
	case constants.StateCravings:
		content = m.viewCravings()
	case constants.StateTasks:
		content = m.viewTasks()
	case constants.StateProgress:
		content = m.viewProgress()
	case constants.StateOnboarding, constants.StateLogCraving, constants.StateAddTask, constants.StateEditProfile:
		content = m.viewForm()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	var status string
	if m.status != "" {
		status = warningStyle.Render(m.status)
	}

	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		"",
		content,
		"",
		status,
		m.help.View(m),
	))
}

func (m Model) viewTabs() string {
	active := m.state
	if !isTab(active) {
		active = m.previousState
	}
	tabs := make([]string, len(constants.TabTitles))
	for i, title := range constants.TabTitles {
		if constants.SessionState(i) == active {
			tabs[i] = activeTabStyle.Render(title)
		} else {
			tabs[i] = inactiveTabStyle.Render(title)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewForm() string {
	if m.form == nil {
		return ""
	}
	if m.formError != "" {
		return lipgloss.JoinVertical(lipgloss.Left, m.form.View(), dangerStyle.Render(m.formError))
	}
	return m.form.View()
}

func (m Model) viewDashboard() string {
	now := m.now()
	if !m.snap.HasQuitDate() {
		return "You have not set a quit date yet.\n" + mutedStyle.Render("Press e to get started.")
	}
	s := m.summary(now)

	var b strings.Builder
	fmt.Fprintln(&b, labelStyle.Render("Smoke-free for"))
	fmt.Fprintln(&b, counterStyle.Render(s.Elapsed.String()))
	fmt.Fprintln(&b)
	row(&b, "Days", fmt.Sprint(s.Days))
	row(&b, "Money saved", s.MoneySaved)
	row(&b, "Cigarettes avoided", fmt.Sprint(s.CigarettesAvoided))
	row(&b, "Craving-free streak", fmt.Sprintf("%d days", s.Streak))
	row(&b, "Cravings today", fmt.Sprint(s.TodayCravings))
	row(&b, "Tasks completed", fmt.Sprint(s.TasksCompleted))

	fmt.Fprintln(&b)
	if s.HasNext {
		fmt.Fprintf(&b, "Next: %s\n", selectedStyle.Render(s.Next.Title))
		fmt.Fprintln(&b, m.bar.ViewAs(s.NextProgress))
	} else {
		fmt.Fprintln(&b, "Every milestone reached.")
	}
	fmt.Fprint(&b, mutedStyle.Render(fmt.Sprintf("%d cigarettes/day at %.2f per pack", m.snap.Profile.CigarettesPerDay, m.snap.Profile.PricePerPack)))
	return b.String()
}

func (m Model) viewCravings() string {
	s := m.summary(m.now())

	var b strings.Builder
	if m.suggestion != nil {
		fmt.Fprintln(&b, suggestionStyle.Render(fmt.Sprintf("Try this instead: %s\n%s", m.suggestion.Title, m.suggestion.Desc)))
		fmt.Fprintln(&b)
	}

	row(&b, "Today", fmt.Sprint(s.TodayCravings))
	row(&b, "Last 7 days", fmt.Sprint(s.WeekCravings))
	row(&b, "Total", fmt.Sprint(s.TotalCravings))
	row(&b, "Average intensity", fmt.Sprintf("%.1f", s.AverageIntensity))
	if s.HasPeakHour {
		row(&b, "Peak hour", stats.FormatHour(s.PeakHour))
	}
	if s.HasTopTrigger {
		row(&b, "Top trigger", s.TopTrigger)
	}

	fmt.Fprintln(&b)
	recent := stats.Recent(m.snap.Cravings, constants.RecentCravingsLimit)
	if len(recent) == 0 {
		fmt.Fprint(&b, mutedStyle.Render("No cravings logged. Press l when one hits."))
		return b.String()
	}
	fmt.Fprintln(&b, labelStyle.Render("Recent"))
	for _, c := range recent {
		line := fmt.Sprintf("%s  %d %-8s", c.Timestamp.Local().Format(constants.DateTimeFormat), c.Intensity, models.IntensityLabel(c.Intensity))
		if c.HasTrigger() {
			line += "  " + *c.Trigger
		}
		fmt.Fprintln(&b, line)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewTasks() string {
	var b strings.Builder
	for i, t := range m.snap.Tasks {
		cursor := "  "
		title := t.Title
		if i == m.taskCursor {
			cursor = "> "
			title = selectedStyle.Render(title)
		}
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render("●")
		count := stats.CompletionCount(m.snap.CompletedTasks, t.ID)
		line := fmt.Sprintf("%s%s %s %s", cursor, dot, title, mutedStyle.Render(fmt.Sprintf("×%d", count)))
		if t.IsCustom {
			line += mutedStyle.Render(" (custom)")
		}
		fmt.Fprintln(&b, line)
	}
	if task, ok := m.selectedTask(); ok && task.Desc != "" {
		fmt.Fprintln(&b)
		fmt.Fprint(&b, mutedStyle.Render(task.Desc))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewProgress() string {
	hours := stats.HoursSince(m.snap.QuitDate, m.now())
	var b strings.Builder
	for _, ms := range models.Milestones() {
		if m.snap.HasQuitDate() && ms.Hours <= hours {
			fmt.Fprintf(&b, "✓ %s\n  %s\n", selectedStyle.Render(ms.Title), mutedStyle.Render(ms.Benefit))
			continue
		}
		fmt.Fprintf(&b, "○ %s\n  %s\n  %s\n", ms.Title, mutedStyle.Render(ms.Description), m.bar.ViewAs(stats.MilestoneProgress(hours, ms)))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewConfirmDelete() string {
	title := m.taskToDelete
	if t, ok := m.snap.FindTask(m.taskToDelete); ok {
		title = t.Title
	}
	return dangerStyle.Render(fmt.Sprintf("Delete task %q?", title)) + "\n" + mutedStyle.Render("y to delete, n to keep")
}

func (m Model) summary(now time.Time) stats.Summary {
	return stats.Summarize(stats.Data{
		QuitDate:       m.snap.QuitDate,
		Profile:        m.snap.Profile,
		Cravings:       m.snap.Cravings,
		CompletedTasks: m.snap.CompletedTasks,
	}, now)
}

func row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-20s", label)), value)
}
