package state

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/smokefree/internal/constants"
	"github.com/julianstephens/smokefree/internal/models"
)

// Caller-side rules. The Store accepts anything; user-facing surfaces go
// through these helpers first.

var (
	ErrBuiltinTask      = errors.New("default tasks cannot be changed")
	ErrTaskNotFound     = errors.New("task not found")
	ErrInvalidIntensity = fmt.Errorf("intensity must be between %d and %d", constants.MinIntensity, constants.MaxIntensity)
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrUnknownIcon      = errors.New("unknown icon")
	ErrUnknownColor     = errors.New("unknown color")
)

// DeleteCustomTask deletes a user-created task and refuses built-ins.
func DeleteCustomTask(s *Store, id string) error {
	if err := requireCustom(s, id); err != nil {
		return err
	}
	return s.DeleteTask(id)
}

// EditCustomTask applies patch to a user-created task and refuses built-ins.
func EditCustomTask(s *Store, id string, patch models.TaskPatch) error {
	if err := requireCustom(s, id); err != nil {
		return err
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return ErrEmptyTitle
	}
	if patch.Icon != nil && !slices.Contains(models.TaskIcons, *patch.Icon) {
		return fmt.Errorf("%w: %s", ErrUnknownIcon, *patch.Icon)
	}
	if patch.Color != nil && !slices.Contains(models.TaskColors, *patch.Color) {
		return fmt.Errorf("%w: %s", ErrUnknownColor, *patch.Color)
	}
	return s.UpdateTask(id, patch)
}

func requireCustom(s *Store, id string) error {
	task, ok := s.Snapshot().FindTask(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if !task.IsCustom {
		return fmt.Errorf("%w: %q is built in", ErrBuiltinTask, task.Title)
	}
	return nil
}

// ValidateIntensity checks a craving intensity before it is logged.
func ValidateIntensity(intensity int) error {
	if intensity < constants.MinIntensity || intensity > constants.MaxIntensity {
		return fmt.Errorf("%w (got %d)", ErrInvalidIntensity, intensity)
	}
	return nil
}

// ValidateNewTask checks the fields of a task about to be added.
func ValidateNewTask(title, icon, color string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	if !slices.Contains(models.TaskIcons, icon) {
		return fmt.Errorf("%w: %s", ErrUnknownIcon, icon)
	}
	if !slices.Contains(models.TaskColors, color) {
		return fmt.Errorf("%w: %s", ErrUnknownColor, color)
	}
	return nil
}

// NormalizeTrigger trims a trigger and maps blank input to "no trigger".
func NormalizeTrigger(raw string) *string {
	t := strings.TrimSpace(raw)
	if t == "" {
		return nil
	}
	return &t
}

// SuggestTask picks a task to try after a craving. pick returns a value in
// [0, n). ok is false when there are no tasks.
func SuggestTask(tasks []models.Task, pick func(n int) int) (models.Task, bool) {
	if len(tasks) == 0 {
		return models.Task{}, false
	}
	return tasks[pick(len(tasks))], true
}
