package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/smokefree/internal/app"
	"github.com/julianstephens/smokefree/internal/config"
	"github.com/julianstephens/smokefree/internal/constants"
	clierrors "github.com/julianstephens/smokefree/internal/errors"
	"github.com/julianstephens/smokefree/internal/logger"
	"github.com/julianstephens/smokefree/internal/models"
	"github.com/julianstephens/smokefree/internal/state"
)

// Context is passed to every command's Run method. Storage is opened lazily
// so commands that never touch it (keyring, remind list) do not need it.
type Context struct {
	Config config.Config
	Out    io.Writer
	Err    io.Writer
	In     io.Reader
	Now    func() time.Time
	// Pick returns a value in [0, n) and drives task suggestions.
	Pick func(n int) int

	app *app.App
}

func NewContext(cfg config.Config, out, errOut io.Writer, in io.Reader) *Context {
	return &Context{
		Config: cfg,
		Out:    out,
		Err:    errOut,
		In:     in,
		Now:    time.Now,
		Pick:   rand.Intn,
	}
}

// App opens storage and loads state on first use.
func (c *Context) App() (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := app.Open(c.Config, app.Options{Reporter: c.report})
	if err != nil {
		return nil, err
	}
	c.app = a
	return a, nil
}

// OpenExclusive opens storage under the single-instance lock for long-running
// modes. With deferLoad the caller is responsible for loading state.
func (c *Context) OpenExclusive(deferLoad bool) (*app.App, error) {
	if c.app != nil {
		return nil, errors.New("storage is already open")
	}
	a, err := app.Open(c.Config, app.Options{Exclusive: true, DeferLoad: deferLoad, Reporter: c.report})
	if err != nil {
		return nil, lockHint(err)
	}
	c.app = a
	return a, nil
}

// Writable opens storage under the single-instance lock for commands that
// change data. It fails with app.ErrAlreadyRunning while another process
// holds the lock.
func (c *Context) Writable() (*app.App, error) {
	if c.app != nil {
		if err := c.app.Lock(); err != nil {
			return nil, lockHint(err)
		}
		return c.app, nil
	}
	a, err := app.Open(c.Config, app.Options{Exclusive: true, Reporter: c.report})
	if err != nil {
		return nil, lockHint(err)
	}
	c.app = a
	return a, nil
}

// State is shorthand for App().State. Use it for read-only commands.
func (c *Context) State() (*state.Store, error) {
	a, err := c.App()
	if err != nil {
		return nil, err
	}
	return a.State, nil
}

// WritableState is shorthand for Writable().State.
func (c *Context) WritableState() (*state.Store, error) {
	a, err := c.Writable()
	if err != nil {
		return nil, err
	}
	return a.State, nil
}

func lockHint(err error) error {
	if errors.Is(err, app.ErrAlreadyRunning) {
		return fmt.Errorf("%w; close the dashboard or reminder daemon and try again", err)
	}
	return err
}

// Close releases storage if it was opened.
func (c *Context) Close() error {
	if c.app == nil {
		return nil
	}
	err := c.app.Close()
	c.app = nil
	return err
}

func (c *Context) report(d state.Diagnostic) {
	if d.Op == state.OpLoad {
		fmt.Fprintf(c.Err, "Warning: stored %s could not be read, using the default (%v)\n", d.Key, d.Err)
	}
}

// Saved downgrades a PersistError to a warning: the change took effect for
// this run but was not written. Other errors pass through.
func (c *Context) Saved(err error) error {
	var pe *state.PersistError
	if errors.As(err, &pe) {
		clierrors.Warn(err)
		return nil
	}
	return err
}

// SaveConfig writes the current config back to disk.
func (c *Context) SaveConfig() error {
	if err := config.Save(c.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	logger.Debug("Saved config", "path", c.Config.Path())
	return nil
}

// Confirm asks a yes/no question on Out and reads the answer from In.
func (c *Context) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(c.Out, "%s [y/N]: ", prompt)
	response, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

// Suggest prints a random task to try instead of smoking.
func (c *Context) Suggest(tasks []models.Task) {
	if task, ok := state.SuggestTask(tasks, c.Pick); ok {
		fmt.Fprintf(c.Out, "Try this instead: %s, %s\n", task.Title, task.Desc)
	}
}

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// Heading renders a section title for terminal output.
func Heading(s string) string { return headingStyle.Render(s) }

// Muted renders secondary text.
func Muted(s string) string { return mutedStyle.Render(s) }

// ParseClock parses a 24h "HH:MM" time of day.
func ParseClock(s string) (int, int, error) {
	t, err := time.Parse(constants.TimeFormat, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q: use HH:MM", s)
	}
	return t.Hour(), t.Minute(), nil
}

// FormatQuitDate renders an optional quit date in the local zone.
func FormatQuitDate(q *time.Time) string {
	if q == nil {
		return "not set"
	}
	return q.Local().Format(time.DateTime)
}
