// Package state owns the canonical in-memory copy of the user's quit data and
// mirrors every change to a kv.Store.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/smokefree/internal/constants"
	"github.com/julianstephens/smokefree/internal/kv"
	"github.com/julianstephens/smokefree/internal/logger"
	"github.com/julianstephens/smokefree/internal/models"
)

// Operation names used in diagnostics.
const (
	OpLoad                = "load"
	OpSetQuitDate         = "setQuitDate"
	OpSetCigarettesPerDay = "setCigarettesPerDay"
	OpSetPricePerPack     = "setPricePerPack"
	OpLogCraving          = "logCraving"
	OpAddTask             = "addTask"
	OpUpdateTask          = "updateTask"
	OpDeleteTask          = "deleteTask"
	OpCompleteTask        = "completeTask"
	OpResetData           = "resetData"
)

// Diagnostic describes a storage failure that did not stop the store.
type Diagnostic struct {
	Op  string
	Key string // empty for operations spanning every key
	Err error
	At  time.Time
}

// PersistError is returned by a mutator whose change was applied in memory
// but could not be written to storage.
type PersistError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: change not saved: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s not saved: %v", e.Op, e.Key, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

type Option func(*Store)

// WithClock overrides the time source used for new records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc overrides record id generation.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// WithReporter receives every load or write failure. It is called without
// the store lock held.
func WithReporter(fn func(Diagnostic)) Option {
	return func(s *Store) { s.report = fn }
}

type Store struct {
	kv kv.Store

	mu   sync.RWMutex
	data Snapshot

	now    func() time.Time
	newID  func() string
	report func(Diagnostic)

	loadOnce sync.Once
	loaded   chan struct{}
}

// New returns a store backed by store. It holds defaults until Load is called.
func New(store kv.Store, opts ...Option) *Store {
	if store == nil {
		panic("state: New requires a kv.Store")
	}
	s := &Store{
		kv:     store,
		data:   DefaultSnapshot(),
		now:    time.Now,
		newID:  newID,
		loaded: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// Ready reports whether Load has finished.
func (s *Store) Ready() bool {
	select {
	case <-s.loaded:
		return true
	default:
		return false
	}
}

// Loaded is closed once Load has finished.
func (s *Store) Loaded() <-chan struct{} {
	return s.loaded
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.clone()
}

// Load reads every field from storage. A field that is missing or cannot be
// decoded keeps its default; the failure is reported and the remaining fields
// still load. Only the first call does any work.
func (s *Store) Load() {
	s.loadOnce.Do(func() {
		defer close(s.loaded)

		data := DefaultSnapshot()
		var diags []Diagnostic

		fail := func(key string, err error) {
			diags = append(diags, Diagnostic{Op: OpLoad, Key: key, Err: err, At: s.now()})
		}

		if raw, ok, err := s.read(constants.KeyQuitDate); err != nil {
			fail(constants.KeyQuitDate, err)
		} else if ok {
			if q, err := time.Parse(time.RFC3339Nano, raw); err != nil {
				fail(constants.KeyQuitDate, err)
			} else {
				data.QuitDate = &q
			}
		}

		if raw, ok, err := s.read(constants.KeyCigarettesPerDay); err != nil {
			fail(constants.KeyCigarettesPerDay, err)
		} else if ok {
			if n, err := strconv.Atoi(raw); err != nil {
				fail(constants.KeyCigarettesPerDay, err)
			} else {
				data.Profile.CigarettesPerDay = n
			}
		}

		if raw, ok, err := s.read(constants.KeyPricePerPack); err != nil {
			fail(constants.KeyPricePerPack, err)
		} else if ok {
			if p, err := parsePrice(raw); err != nil {
				fail(constants.KeyPricePerPack, err)
			} else {
				data.Profile.PricePerPack = p
			}
		}

		if err := loadList(s, constants.KeyCravings, &data.Cravings); err != nil {
			fail(constants.KeyCravings, err)
		}
		if err := loadList(s, constants.KeyTasks, &data.Tasks); err != nil {
			fail(constants.KeyTasks, err)
		}
		if err := loadList(s, constants.KeyCompletedTasks, &data.CompletedTasks); err != nil {
			fail(constants.KeyCompletedTasks, err)
		}

		s.mu.Lock()
		s.data = data
		s.mu.Unlock()

		for _, d := range diags {
			s.emit(d)
		}
		logger.Debug("State loaded", "cravings", len(data.Cravings), "tasks", len(data.Tasks), "issues", len(diags))
	})
}

func (s *Store) read(key string) (string, bool, error) {
	return s.kv.Get(key)
}

// loadList decodes a JSON array into dst, leaving dst untouched on any failure.
func loadList[T any](s *Store, key string, dst *[]T) error {
	raw, ok, err := s.read(key)
	if err != nil || !ok {
		return err
	}
	var out []T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return err
	}
	if out == nil {
		return errors.New("stored list is null")
	}
	*dst = out
	return nil
}

func parsePrice(raw string) (float64, error) {
	p, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, fmt.Errorf("invalid price %q", raw)
	}
	return p, nil
}

func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// SetQuitDate sets the quit date, or clears it when date is nil.
func (s *Store) SetQuitDate(date *time.Time) error {
	s.mu.Lock()
	var err error
	if date == nil {
		s.data.QuitDate = nil
		err = s.kv.Remove(constants.KeyQuitDate)
	} else {
		q := date.UTC()
		s.data.QuitDate = &q
		err = s.kv.Set(constants.KeyQuitDate, q.Format(time.RFC3339Nano))
	}
	s.mu.Unlock()
	return s.check(OpSetQuitDate, constants.KeyQuitDate, err)
}

func (s *Store) SetCigarettesPerDay(n int) error {
	s.mu.Lock()
	s.data.Profile.CigarettesPerDay = n
	err := s.kv.Set(constants.KeyCigarettesPerDay, strconv.Itoa(n))
	s.mu.Unlock()
	return s.check(OpSetCigarettesPerDay, constants.KeyCigarettesPerDay, err)
}

func (s *Store) SetPricePerPack(p float64) error {
	s.mu.Lock()
	s.data.Profile.PricePerPack = p
	err := s.kv.Set(constants.KeyPricePerPack, formatPrice(p))
	s.mu.Unlock()
	return s.check(OpSetPricePerPack, constants.KeyPricePerPack, err)
}

// LogCraving records a craving at the current time and puts it first in the log.
// trigger may be nil. Intensity is stored as given.
func (s *Store) LogCraving(intensity int, trigger *string) (models.CravingLog, error) {
	entry := models.CravingLog{
		ID:        s.newID(),
		Timestamp: s.now().Round(0),
		Intensity: intensity,
		Trigger:   cloneString(trigger),
	}

	s.mu.Lock()
	s.data.Cravings = slices.Insert(s.data.Cravings, 0, entry)
	err := s.writeJSON(constants.KeyCravings, s.data.Cravings)
	s.mu.Unlock()

	entry.Trigger = cloneString(entry.Trigger)
	return entry, s.check(OpLogCraving, constants.KeyCravings, err)
}

// AddTask appends a new custom task.
func (s *Store) AddTask(title, desc, icon, color string) (models.Task, error) {
	task := models.Task{
		ID:       s.newID(),
		Title:    title,
		Desc:     desc,
		Icon:     icon,
		Color:    color,
		IsCustom: true,
	}

	s.mu.Lock()
	s.data.Tasks = append(s.data.Tasks, task)
	err := s.writeJSON(constants.KeyTasks, s.data.Tasks)
	s.mu.Unlock()

	return task, s.check(OpAddTask, constants.KeyTasks, err)
}

// UpdateTask merges patch into the task with the given id. An unknown id
// leaves the list unchanged.
func (s *Store) UpdateTask(id string, patch models.TaskPatch) error {
	s.mu.Lock()
	if i := slices.IndexFunc(s.data.Tasks, func(t models.Task) bool { return t.ID == id }); i >= 0 {
		s.data.Tasks[i] = patch.Apply(s.data.Tasks[i])
	}
	err := s.writeJSON(constants.KeyTasks, s.data.Tasks)
	s.mu.Unlock()
	return s.check(OpUpdateTask, constants.KeyTasks, err)
}

// DeleteTask removes the task with the given id, built-in or not.
// Use DeleteCustomTask to keep the built-ins protected.
func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	s.data.Tasks = slices.DeleteFunc(s.data.Tasks, func(t models.Task) bool { return t.ID == id })
	err := s.writeJSON(constants.KeyTasks, s.data.Tasks)
	s.mu.Unlock()
	return s.check(OpDeleteTask, constants.KeyTasks, err)
}

// CompleteTask records a completion of taskID. The id is not checked
// against the task list.
func (s *Store) CompleteTask(taskID string) (models.CompletedTask, error) {
	done := models.CompletedTask{TaskID: taskID, Timestamp: s.now().Round(0)}

	s.mu.Lock()
	s.data.CompletedTasks = slices.Insert(s.data.CompletedTasks, 0, done)
	err := s.writeJSON(constants.KeyCompletedTasks, s.data.CompletedTasks)
	s.mu.Unlock()

	return done, s.check(OpCompleteTask, constants.KeyCompletedTasks, err)
}

// ResetData wipes storage and returns every field to its default.
func (s *Store) ResetData() error {
	s.mu.Lock()
	s.data = DefaultSnapshot()
	err := s.kv.Clear()
	s.mu.Unlock()
	return s.check(OpResetData, "", err)
}

// writeJSON must be called with s.mu held.
func (s *Store) writeJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.kv.Set(key, string(data))
}

// check converts a storage error into a reported PersistError.
func (s *Store) check(op, key string, err error) error {
	if err == nil {
		return nil
	}
	s.emit(Diagnostic{Op: op, Key: key, Err: err, At: s.now()})
	return &PersistError{Op: op, Key: key, Err: err}
}

func (s *Store) emit(d Diagnostic) {
	logger.Warn("Storage operation failed", "op", d.Op, "key", d.Key, "error", d.Err)
	if s.report != nil {
		s.report(d)
	}
}
