// Package reminder schedules daily check-in notifications and one-off nudges.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/julianstephens/smokefree/internal/logger"
	"github.com/julianstephens/smokefree/internal/models"
	"github.com/julianstephens/smokefree/internal/notifier"
)

var (
	// ErrInvalidTime is returned for an hour outside 0-23 or a minute outside 0-59.
	ErrInvalidTime = errors.New("reminder time must be between 00:00 and 23:59")
	ErrEmptyTitle  = errors.New("reminder title cannot be empty")
)

// Sender delivers a single notification.
type Sender interface {
	Notify(ctx context.Context, title, body string) error
}

type Scheduler struct {
	mu        sync.Mutex
	sender    Sender
	reminders []models.Reminder
	wake      chan struct{}

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

type Option func(*Scheduler)

// WithClock replaces the wall clock and timer source.
func WithClock(now func() time.Time, after func(time.Duration) <-chan time.Time) Option {
	return func(s *Scheduler) {
		s.now = now
		s.after = after
	}
}

func New(sender Sender, opts ...Option) *Scheduler {
	s := &Scheduler{
		sender: sender,
		wake:   make(chan struct{}, 1),
		now:    time.Now,
		after:  time.After,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validate checks a reminder before it is scheduled or saved.
func Validate(r models.Reminder) error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyTitle
	}
	if r.Hour < 0 || r.Hour > 23 || r.Minute < 0 || r.Minute > 59 {
		return fmt.Errorf("%w: got %02d:%02d", ErrInvalidTime, r.Hour, r.Minute)
	}
	return nil
}

// ScheduleRecurringReminder registers a reminder that fires every day at
// hour:minute local time. A running Run loop picks it up immediately.
func (s *Scheduler) ScheduleRecurringReminder(title, body string, hour, minute int) error {
	r := models.Reminder{Title: title, Body: body, Hour: hour, Minute: minute}
	if err := Validate(r); err != nil {
		return err
	}

	s.mu.Lock()
	s.reminders = append(s.reminders, r)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
	logger.Debug("Scheduled recurring reminder", "title", title, "at", fmt.Sprintf("%02d:%02d", hour, minute))
	return nil
}

// ScheduleInstantReminder delivers a notification now. Systems without any
// notification support are treated as success.
func (s *Scheduler) ScheduleInstantReminder(ctx context.Context, title, body string) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}
	return s.deliver(ctx, models.Reminder{Title: title, Body: body})
}

// Reminders returns a copy of the registered recurring reminders.
func (s *Scheduler) Reminders() []models.Reminder {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.reminders)
}

// Run fires recurring reminders until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		now := s.now()
		next, due := s.nextDue(now)
		if len(due) == 0 {
			select {
			case <-ctx.Done():
				return nil
			case <-s.wake:
				continue
			}
		}

		logger.Debug("Waiting for next reminder", "at", next.Format(time.DateTime), "count", len(due))
		select {
		case <-ctx.Done():
			return nil
		case <-s.wake:
		case <-s.after(next.Sub(now)):
			for _, r := range due {
				if err := s.deliver(ctx, r); err != nil {
					logger.Warn("Reminder delivery failed", "title", r.Title, "error", err)
				}
			}
		}
	}
}

func (s *Scheduler) deliver(ctx context.Context, r models.Reminder) error {
	err := s.sender.Notify(ctx, r.Title, r.Body)
	if errors.Is(err, notifier.ErrUnsupported) {
		logger.Debug("Notifications unsupported, skipping reminder", "title", r.Title)
		return nil
	}
	return err
}

// nextDue returns the earliest upcoming fire time and every reminder due then.
func (s *Scheduler) nextDue(now time.Time) (time.Time, []models.Reminder) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next time.Time
	var due []models.Reminder
	for _, r := range s.reminders {
		at := NextFire(now, r.Hour, r.Minute)
		switch {
		case len(due) == 0 || at.Before(next):
			next, due = at, []models.Reminder{r}
		case at.Equal(next):
			due = append(due, r)
		}
	}
	return next, due
}

// NextFire returns the first hour:minute strictly after now, in now's location.
func NextFire(now time.Time, hour, minute int) time.Time {
	y, m, d := now.Date()
	at := time.Date(y, m, d, hour, minute, 0, 0, now.Location())
	if !at.After(now) {
		at = time.Date(y, m, d+1, hour, minute, 0, 0, now.Location())
	}
	return at
}
