package tui

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/smokefree/internal/constants"
	"github.com/julianstephens/smokefree/internal/logger"
	"github.com/julianstephens/smokefree/internal/models"
	"github.com/julianstephens/smokefree/internal/state"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.bar.Width = min(max(msg.Width-40, 10), 60)
		if m.form != nil {
			m.form = m.form.WithWidth(msg.Width - 4)
		}
		return m, nil

	case tickMsg:
		return m, tick()

	case loadedMsg:
		m.loaded = true
		m.refresh()
		if !m.snap.HasQuitDate() {
			return m.startOnboarding()
		}
		return m, nil
	}

	switch m.state {
	case constants.StateOnboarding, constants.StateLogCraving, constants.StateAddTask, constants.StateEditProfile:
		return m.updateForm(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case !m.loaded:
		return m, nil
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.Tab):
		m.state = (m.state + 1) % constants.SessionState(len(constants.TabTitles))
		return m, nil
	case key.Matches(keyMsg, m.keys.ShiftTab):
		n := constants.SessionState(len(constants.TabTitles))
		m.state = (m.state + n - 1) % n
		return m, nil
	case key.Matches(keyMsg, m.keys.Log):
		return m.startCravingForm()
	}

	switch m.state {
	case constants.StateDashboard:
		if key.Matches(keyMsg, m.keys.Edit) {
			if !m.snap.HasQuitDate() {
				return m.startOnboarding()
			}
			return m.startProfileForm()
		}
	case constants.StateCravings:
		if key.Matches(keyMsg, m.keys.Dismiss) {
			m.suggestion = nil
		}
	case constants.StateTasks:
		return m.updateTasks(keyMsg)
	}
	return m, nil
}

func (m Model) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.taskCursor > 0 {
			m.taskCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.taskCursor < len(m.snap.Tasks)-1 {
			m.taskCursor++
		}
	case key.Matches(msg, m.keys.Add):
		return m.startTaskForm()
	case key.Matches(msg, m.keys.Complete):
		if task, ok := m.selectedTask(); ok {
			_, err := m.store.CompleteTask(task.ID)
			m.refresh()
			if m.report(err) {
				m.status = fmt.Sprintf("Nice work: %s done.", task.Title)
			}
		}
	case key.Matches(msg, m.keys.Delete):
		task, ok := m.selectedTask()
		if !ok {
			break
		}
		if !task.IsCustom {
			m.status = "Built-in tasks cannot be deleted."
			break
		}
		m.taskToDelete = task.ID
		m.previousState = m.state
		m.state = constants.StateConfirmDelete
	}
	return m, nil
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		err := state.DeleteCustomTask(m.store, m.taskToDelete)
		m.refresh()
		if m.report(err) {
			m.status = "Task deleted."
		}
	case key.Matches(keyMsg, m.keys.Cancel):
	default:
		return m, nil
	}
	m.taskToDelete = ""
	m.state = m.previousState
	return m, nil
}

// report turns a mutation error into a status line. It returns true when the
// change was written.
func (m *Model) report(err error) bool {
	if err == nil {
		m.status = ""
		return true
	}
	var pe *state.PersistError
	if errors.As(err, &pe) {
		logger.Warn("Change not saved", "op", pe.Op, "key", pe.Key, "error", pe.Err)
		m.status = "Not saved to storage, kept for this session: " + pe.Err.Error()
		return false
	}
	m.status = err.Error()
	return false
}

func (m Model) openForm(s constants.SessionState, form *huh.Form) (tea.Model, tea.Cmd) {
	if isTab(m.state) {
		m.previousState = m.state
	}
	m.state = s
	m.formError = ""
	m.form = form
	if m.width > 0 {
		m.form = m.form.WithWidth(m.width - 4)
	}
	return m, m.form.Init()
}

func (m Model) startOnboarding() (tea.Model, tea.Cmd) {
	m.onboardingForm = &OnboardingFormModel{
		When:       quitNow,
		Cigarettes: strconv.Itoa(m.snap.Profile.CigarettesPerDay),
		Price:      strconv.FormatFloat(m.snap.Profile.PricePerPack, 'f', -1, 64),
	}
	return m.openForm(constants.StateOnboarding, NewOnboardingForm(m.onboardingForm))
}

func (m Model) startCravingForm() (tea.Model, tea.Cmd) {
	m.cravingForm = &CravingFormModel{Intensity: 3}
	return m.openForm(constants.StateLogCraving, NewCravingForm(m.cravingForm))
}

func (m Model) startTaskForm() (tea.Model, tea.Cmd) {
	m.taskForm = &TaskFormModel{Icon: "leaf", Color: "#10B981"}
	return m.openForm(constants.StateAddTask, NewTaskForm(m.taskForm))
}

func (m Model) startProfileForm() (tea.Model, tea.Cmd) {
	m.profileForm = &ProfileFormModel{
		Cigarettes: strconv.Itoa(m.snap.Profile.CigarettesPerDay),
		Price:      strconv.FormatFloat(m.snap.Profile.PricePerPack, 'f', -1, 64),
	}
	return m.openForm(constants.StateEditProfile, NewProfileForm(m.profileForm))
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		return m.closeForm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		var err error
		switch m.state {
		case constants.StateOnboarding:
			err = m.submitOnboarding()
		case constants.StateLogCraving:
			err = m.submitCraving()
		case constants.StateAddTask:
			err = m.submitTask()
		case constants.StateEditProfile:
			err = m.submitProfile()
		}
		if err != nil {
			// Stay in the form so the user can correct the value
			m.formError = err.Error()
			m.form.State = huh.StateNormal
			return m, cmd
		}
		return m.closeForm(), nil
	case huh.StateAborted:
		return m.closeForm(), nil
	}
	return m, cmd
}

func (m Model) closeForm() Model {
	m.state = m.previousState
	m.form = nil
	m.formError = ""
	return m
}

// submitOnboarding records the quit date and profile. Validation errors keep
// the form open; storage errors are reported and the form closes.
func (m *Model) submitOnboarding() error {
	fm := m.onboardingForm
	now := m.now()
	quit, err := fm.quitDate(now)
	if err != nil {
		return err
	}
	cigarettes, price, err := parseProfile(fm.Cigarettes, fm.Price)
	if err != nil {
		return err
	}

	errs := errors.Join(
		m.store.SetQuitDate(&quit),
		m.store.SetCigarettesPerDay(cigarettes),
		m.store.SetPricePerPack(price),
	)
	m.refresh()
	if m.report(errs) && quit.After(now) {
		m.status = "Your quit date is in the future; the counter starts then."
	}
	m.previousState = constants.StateDashboard
	return nil
}

func (m *Model) submitCraving() error {
	fm := m.cravingForm
	if err := state.ValidateIntensity(fm.Intensity); err != nil {
		return err
	}
	_, err := m.store.LogCraving(fm.Intensity, fm.trigger())
	m.refresh()
	m.report(err)

	if task, ok := state.SuggestTask(m.snap.Tasks, m.pick); ok {
		m.suggestion = &task
	}
	m.previousState = constants.StateCravings
	return nil
}

func (m *Model) submitTask() error {
	fm := m.taskForm
	if err := state.ValidateNewTask(fm.Title, fm.Icon, fm.Color); err != nil {
		return err
	}
	task, err := m.store.AddTask(fm.Title, fm.Desc, fm.Icon, fm.Color)
	m.refresh()
	if m.report(err) {
		m.status = fmt.Sprintf("Added %q.", task.Title)
	}
	m.taskCursor = taskIndex(m.snap.Tasks, task.ID, m.taskCursor)
	return nil
}

func (m *Model) submitProfile() error {
	cigarettes, price, err := parseProfile(m.profileForm.Cigarettes, m.profileForm.Price)
	if err != nil {
		return err
	}
	errs := errors.Join(
		m.store.SetCigarettesPerDay(cigarettes),
		m.store.SetPricePerPack(price),
	)
	m.refresh()
	if m.report(errs) {
		m.status = "Profile updated."
	}
	return nil
}

func taskIndex(tasks []models.Task, id string, fallback int) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return fallback
}
