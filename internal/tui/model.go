// Package tui is the interactive dashboard: a live quit counter, craving log,
// distraction tasks and health milestones.
package tui

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/smokefree/internal/app"
	"github.com/julianstephens/smokefree/internal/constants"
	"github.com/julianstephens/smokefree/internal/models"
	"github.com/julianstephens/smokefree/internal/state"
)

type loadedMsg struct{}

type tickMsg time.Time

type Model struct {
	store *state.Store
	now   func() time.Time
	pick  func(n int) int

	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model
	bar           progress.Model

	form           *huh.Form
	onboardingForm *OnboardingFormModel
	cravingForm    *CravingFormModel
	taskForm       *TaskFormModel
	profileForm    *ProfileFormModel

	loaded       bool
	snap         state.Snapshot
	taskCursor   int
	taskToDelete string
	suggestion   *models.Task

	status    string // persistence warnings and policy refusals
	formError string
	quitting  bool
	width     int
	height    int
}

func NewModel(a *app.App, now func() time.Time) Model {
	return newModel(a.State, now, rand.Intn)
}

func newModel(store *state.Store, now func() time.Time, pick func(n int) int) Model {
	if now == nil {
		now = time.Now
	}
	return Model{
		store: store,
		now:   now,
		pick:  pick,
		state: constants.StateDashboard,
		keys:  DefaultKeyMap(),
		help:  help.New(),
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		snap:  store.Snapshot(),
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Log, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateDashboard:
		keys = append(keys, m.keys.Edit)
	case constants.StateCravings:
		if m.suggestion != nil {
			keys = append(keys, m.keys.Dismiss)
		}
	case constants.StateTasks:
		keys = append(keys, m.keys.Complete, m.keys.Add, m.keys.Delete)
	case constants.StateConfirmDelete:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Log, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case constants.StateDashboard:
		actions = []key.Binding{m.keys.Edit}
	case constants.StateCravings:
		actions = []key.Binding{m.keys.Dismiss}
	case constants.StateTasks:
		actions = []key.Binding{m.keys.Complete, m.keys.Add, m.keys.Delete}
	}

	return [][]key.Binding{global, navigation, actions}
}

// Init loads stored state off the render loop and starts the counter.
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadState(m.store), tick())
}

func loadState(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		store.Load()
		return loadedMsg{}
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// isTab reports whether s is one of the main tabs.
func isTab(s constants.SessionState) bool {
	return s >= constants.StateDashboard && s <= constants.StateProgress
}

// refresh re-reads the store after a mutation.
func (m *Model) refresh() {
	m.snap = m.store.Snapshot()
	if n := len(m.snap.Tasks); m.taskCursor >= n {
		m.taskCursor = max(n-1, 0)
	}
}

func (m Model) selectedTask() (models.Task, bool) {
	if m.taskCursor < 0 || m.taskCursor >= len(m.snap.Tasks) {
		return models.Task{}, false
	}
	return m.snap.Tasks[m.taskCursor], true
}
