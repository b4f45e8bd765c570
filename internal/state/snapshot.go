package state

import (
	"slices"
	"time"

	"github.com/julianstephens/smokefree/internal/models"
)

// Snapshot is a point-in-time copy of all tracked data. Values handed out by
// Store.Snapshot share no memory with the store.
type Snapshot struct {
	// QuitDate is nil until the user has set a quit date.
	QuitDate       *time.Time
	Profile        models.Profile
	Cravings       []models.CravingLog // newest first
	Tasks          []models.Task
	CompletedTasks []models.CompletedTask // newest first
}

// DefaultSnapshot returns the state of a fresh install.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Profile:        models.DefaultProfile(),
		Cravings:       []models.CravingLog{},
		Tasks:          models.BuiltinTasks(),
		CompletedTasks: []models.CompletedTask{},
	}
}

// HasQuitDate reports whether onboarding has been completed.
func (s Snapshot) HasQuitDate() bool {
	return s.QuitDate != nil
}

// FindTask looks up a task by id.
func (s Snapshot) FindTask(id string) (models.Task, bool) {
	for _, t := range s.Tasks {
		if t.ID == id {
			return t, true
		}
	}
	return models.Task{}, false
}

func (s Snapshot) clone() Snapshot {
	out := Snapshot{
		Profile:        s.Profile,
		Cravings:       make([]models.CravingLog, len(s.Cravings)),
		Tasks:          slices.Clone(s.Tasks),
		CompletedTasks: slices.Clone(s.CompletedTasks),
	}
	if out.Tasks == nil {
		out.Tasks = []models.Task{}
	}
	if out.CompletedTasks == nil {
		out.CompletedTasks = []models.CompletedTask{}
	}
	if s.QuitDate != nil {
		q := *s.QuitDate
		out.QuitDate = &q
	}
	for i, c := range s.Cravings {
		c.Trigger = cloneString(c.Trigger)
		out.Cravings[i] = c
	}
	return out
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
