// Package config loads smokefree settings from ~/.config/smokefree/config.toml,
// an optional smokefree.env beside it, and SMOKEFREE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/julianstephens/smokefree/internal/constants"
	"github.com/julianstephens/smokefree/internal/models"
)

// ErrMalformed marks a config file that could not be parsed. Load still
// returns usable defaults alongside it.
var ErrMalformed = errors.New("config file is malformed")

type Notifications struct {
	Enabled bool `toml:"enabled"`
}

type Config struct {
	// Storage is a SQLite file path, a postgres:// URL, or "keyring".
	Storage       string            `toml:"storage"`
	LogLevel      string            `toml:"log_level"`
	Debug         bool              `toml:"debug"`
	Notifications Notifications     `toml:"notifications"`
	Reminders     []models.Reminder `toml:"reminders"`

	path string
}

func DefaultPath() string {
	return filepath.Join(constants.DefaultConfigDir, constants.ConfigFileName)
}

// Default returns the configuration used when no file exists yet. An empty
// Storage resolves to smokefree.db in the config directory.
func Default() Config {
	return Config{
		LogLevel:      "warn",
		Notifications: Notifications{Enabled: true},
		Reminders: []models.Reminder{{
			Title:  constants.DefaultReminderTitle,
			Body:   constants.DefaultReminderBody,
			Hour:   constants.DefaultReminderHour,
			Minute: constants.DefaultReminderMinute,
		}},
	}
}

// Path is the resolved file the config was loaded from.
func (c Config) Path() string { return c.path }

// Dir is the directory holding the config file, logs and the default database.
func (c Config) Dir() string { return filepath.Dir(c.path) }

// UsesKeyring reports whether the storage target lives in the OS keyring.
func (c Config) UsesKeyring() bool {
	return strings.EqualFold(strings.TrimSpace(c.Storage), constants.StorageKeyring)
}

// StoragePath expands ~ in a file storage target. Other targets pass through.
func (c Config) StoragePath() (string, error) {
	s := strings.TrimSpace(c.Storage)
	if strings.Contains(s, "://") || c.UsesKeyring() {
		return s, nil
	}
	return ExpandPath(s)
}

// Load reads the config at path (DefaultPath when empty). A missing file yields
// defaults. A malformed file yields defaults and an error wrapping ErrMalformed.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultPath()
	}
	resolved, err := ExpandPath(path)
	if err != nil {
		return Config{}, fmt.Errorf("resolve config path: %w", err)
	}

	cfg := Default()
	cfg.path = resolved

	var loadErr error
	data, err := os.ReadFile(resolved)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		loadErr = fmt.Errorf("read config: %w", err)
	default:
		parsed := Default()
		parsed.Reminders = nil
		if err := toml.Unmarshal(data, &parsed); err != nil {
			loadErr = fmt.Errorf("%w: %s: %v", ErrMalformed, resolved, err)
		} else {
			parsed.path = resolved
			cfg = parsed
		}
	}

	if err := cfg.applyEnv(); err != nil && loadErr == nil {
		loadErr = err
	}
	if strings.TrimSpace(cfg.Storage) == "" {
		cfg.Storage = filepath.Join(cfg.Dir(), constants.DatabaseFileName)
	}
	return cfg, loadErr
}

// applyEnv layers the env file and the process environment over file values.
// Real environment variables win over the env file.
func (c *Config) applyEnv() error {
	fileEnv, err := godotenv.Read(filepath.Join(c.Dir(), constants.EnvFileName))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", constants.EnvFileName, err)
	}

	c.Storage = coalesce(os.Getenv(constants.EnvStorage), fileEnv[constants.EnvStorage], c.Storage)
	c.LogLevel = coalesce(os.Getenv(constants.EnvLogLevel), fileEnv[constants.EnvLogLevel], c.LogLevel)

	if raw := coalesce(os.Getenv(constants.EnvDebug), fileEnv[constants.EnvDebug]); raw != "" {
		debug, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid %s value %q", constants.EnvDebug, raw)
		}
		c.Debug = debug
	}
	return nil
}

// Save writes cfg to its path, replacing the previous file atomically.
func Save(cfg Config) error {
	if cfg.path == "" {
		return errors.New("config has no path; load it first")
	}
	if err := os.MkdirAll(cfg.Dir(), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp, err := os.CreateTemp(cfg.Dir(), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp.Name(), cfg.path); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

// WithPath returns a copy of cfg that saves to path.
func (c Config) WithPath(path string) (Config, error) {
	resolved, err := ExpandPath(path)
	if err != nil {
		return c, err
	}
	c.path = resolved
	return c, nil
}

func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}

func coalesce(args ...string) string {
	for _, s := range args {
		if s != "" {
			return s
		}
	}
	return ""
}
