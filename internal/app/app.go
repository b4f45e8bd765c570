// Package app wires configuration, storage, state and notifications together
// for the CLI and the TUI.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/julianstephens/smokefree/internal/backup"
	"github.com/julianstephens/smokefree/internal/config"
	"github.com/julianstephens/smokefree/internal/constants"
	"github.com/julianstephens/smokefree/internal/keyring"
	"github.com/julianstephens/smokefree/internal/kv"
	"github.com/julianstephens/smokefree/internal/kv/postgres"
	"github.com/julianstephens/smokefree/internal/kv/sqlite"
	"github.com/julianstephens/smokefree/internal/logger"
	"github.com/julianstephens/smokefree/internal/notifier"
	"github.com/julianstephens/smokefree/internal/reminder"
	"github.com/julianstephens/smokefree/internal/state"
)

// ErrAlreadyRunning is returned when the dashboard, the reminder daemon or a
// writing command already holds the lock.
var ErrAlreadyRunning = errors.New("another instance of smokefree is already running")

type Options struct {
	// Exclusive takes the single-instance lock. Long-running modes and
	// commands that change data set it.
	Exclusive bool
	// DeferLoad leaves state loading to the caller.
	DeferLoad bool
	Reporter  func(state.Diagnostic)
}

type App struct {
	Config    config.Config
	KV        kv.Store
	State     *state.Store
	Notifier  *notifier.Notifier
	Reminders *reminder.Scheduler
	// Backups is nil unless storage is a SQLite file.
	Backups *backup.Manager

	lock *flock.Flock
}

// Open builds an App from cfg. The caller must Close it.
func Open(cfg config.Config, opts Options) (*App, error) {
	if err := os.MkdirAll(cfg.Dir(), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	a := &App{Config: cfg}
	if opts.Exclusive {
		if err := a.acquireLock(); err != nil {
			return nil, err
		}
	}

	store, sqlitePath, err := openKV(cfg)
	if err != nil {
		a.releaseLock()
		return nil, err
	}
	a.KV = store
	if sqlitePath != "" {
		a.Backups = backup.NewManager(sqlitePath)
	}

	var stateOpts []state.Option
	if opts.Reporter != nil {
		stateOpts = append(stateOpts, state.WithReporter(opts.Reporter))
	}
	a.State = state.New(store, stateOpts...)

	a.Notifier = notifier.New()
	a.Notifier.SetEnabled(cfg.Notifications.Enabled)
	a.Reminders = reminder.New(a.Notifier)
	for _, r := range cfg.Reminders {
		if err := a.Reminders.ScheduleRecurringReminder(r.Title, r.Body, r.Hour, r.Minute); err != nil {
			logger.Warn("Skipping invalid reminder from config", "title", r.Title, "error", err)
		}
	}

	if !opts.DeferLoad {
		a.State.Load()
	}
	return a, nil
}

// openKV resolves the storage target and initializes the matching backend.
// The second result is the SQLite file path, or empty for PostgreSQL.
func openKV(cfg config.Config) (kv.Store, string, error) {
	if cfg.UsesKeyring() {
		connStr, err := keyring.GetConnectionString()
		if errors.Is(err, keyring.ErrNotFound) {
			return nil, "", fmt.Errorf("storage is set to keyring but no connection string is stored; run 'smokefree keyring set'")
		}
		if err != nil {
			return nil, "", err
		}
		logger.Debug("Using PostgreSQL connection string from keyring")
		return initKV(postgres.New(connStr), "")
	}

	target, err := cfg.StoragePath()
	if err != nil {
		return nil, "", fmt.Errorf("invalid storage path: %w", err)
	}

	if postgres.IsConnString(target) {
		if err := postgres.ValidateConnString(target); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, "", fmt.Errorf("%w; store it with 'smokefree keyring set' and set storage = %q", err, constants.StorageKeyring)
			}
			return nil, "", err
		}
		return initKV(postgres.New(target), "")
	}

	return initKV(sqlite.New(target), target)
}

type initStore interface {
	kv.Store
	Init() error
}

func initKV(s initStore, sqlitePath string) (kv.Store, string, error) {
	if err := s.Init(); err != nil {
		return nil, "", fmt.Errorf("failed to open storage: %w", err)
	}
	return s, sqlitePath, nil
}

func (a *App) acquireLock() error {
	a.lock = flock.New(filepath.Join(a.Config.Dir(), constants.LockFileName))

	locked, err := a.lock.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return ErrAlreadyRunning
	}
	return nil
}

// Lock takes the single-instance lock on an App opened without it. It is a
// no-op when the lock is already held.
func (a *App) Lock() error {
	if a.lock != nil && a.lock.Locked() {
		return nil
	}
	return a.acquireLock()
}

// Locked reports whether this App holds the single-instance lock.
func (a *App) Locked() bool {
	return a.lock != nil && a.lock.Locked()
}

func (a *App) releaseLock() {
	if a.lock != nil {
		_ = a.lock.Unlock()
	}
}

// CloseStorage closes storage but keeps the lock, for callers that replace
// the database file.
func (a *App) CloseStorage() error {
	if a.KV == nil {
		return nil
	}
	err := a.KV.Close()
	a.KV = nil
	if err != nil {
		return fmt.Errorf("failed to close storage: %w", err)
	}
	return nil
}

// Close closes storage and releases the lock.
func (a *App) Close() error {
	err := a.CloseStorage()
	a.releaseLock()
	return err
}
