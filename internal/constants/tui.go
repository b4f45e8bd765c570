package constants

// SessionState represents the current state of the TUI application
type SessionState int

const (
	// Main tabs, in display order
	StateDashboard SessionState = iota
	StateCravings
	StateTasks
	StateProgress

	// Sub-states
	StateOnboarding
	StateLogCraving
	StateAddTask
	StateEditProfile
	StateConfirmDelete
)

// TabTitles are indexed by the main tab states.
var TabTitles = []string{"Dashboard", "Cravings", "Tasks", "Progress"}
