package models

import (
	"slices"
	"time"
)

// Task is a distraction activity the user can complete any number of times.
type Task struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Desc     string `json:"desc"`
	Icon     string `json:"icon"`
	Color    string `json:"color"`
	IsCustom bool   `json:"isCustom,omitempty"`
}

// TaskPatch holds the fields of a partial task update. Nil fields are left untouched.
type TaskPatch struct {
	Title *string
	Desc  *string
	Icon  *string
	Color *string
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Desc == nil && p.Icon == nil && p.Color == nil
}

// Apply returns a copy of t with the patch merged in.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Desc != nil {
		t.Desc = *p.Desc
	}
	if p.Icon != nil {
		t.Icon = *p.Icon
	}
	if p.Color != nil {
		t.Color = *p.Color
	}
	return t
}

// CompletedTask records one completion of a task. TaskID is not required to
// reference a task that still exists.
type CompletedTask struct {
	TaskID    string    `json:"taskId"`
	Timestamp time.Time `json:"timestamp"`
}

var builtinTasks = []Task{
	{ID: "1", Title: "Deep Breathing", Desc: "Take 10 deep breaths. Inhale for 4s, hold for 7s, exhale for 8s.", Icon: "heartbeat", Color: "#F43F5E"},
	{ID: "2", Title: "Drink Water", Desc: "Drink a full glass of water slowly.", Icon: "tint", Color: "#3B82F6"},
	{ID: "3", Title: "Quick Walk", Desc: "Go for a 5-minute walk around the block.", Icon: "blind", Color: "#10B981"},
	{ID: "4", Title: "Push-ups", Desc: "Do as many push-ups as you can in 1 minute.", Icon: "fire", Color: "#F59E0B"},
	{ID: "5", Title: "Call a Friend", Desc: "Call someone who supports your journey.", Icon: "phone", Color: "#8B5CF6"},
	{ID: "6", Title: "Learn Something", Desc: "Read an article or watch an educational video.", Icon: "book", Color: "#EC4899"},
}

// BuiltinTasks returns a fresh copy of the six seeded tasks.
func BuiltinTasks() []Task {
	return slices.Clone(builtinTasks)
}

// IsBuiltinTaskID reports whether id belongs to one of the seeded tasks.
func IsBuiltinTaskID(id string) bool {
	for _, t := range builtinTasks {
		if t.ID == id {
			return true
		}
	}
	return false
}

// TaskIcons are the symbolic icon names a custom task may use.
var TaskIcons = []string{
	"heartbeat", "tint", "blind", "fire", "phone", "book",
	"music", "gamepad", "coffee", "leaf", "sun-o", "moon-o",
}

// TaskColors are the colors a custom task may use.
var TaskColors = []string{
	"#F43F5E", "#3B82F6", "#10B981", "#F59E0B",
	"#8B5CF6", "#EC4899", "#06B6D4", "#84CC16",
}
