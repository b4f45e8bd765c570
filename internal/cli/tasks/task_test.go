package tasks

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/smokefree/internal/cli"
	"github.com/julianstephens/smokefree/internal/config"
	"github.com/julianstephens/smokefree/internal/constants"
	"github.com/julianstephens/smokefree/internal/models"
	"github.com/julianstephens/smokefree/internal/state"
)

func setupTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	for _, k := range []string{constants.EnvStorage, constants.EnvLogLevel, constants.EnvDebug} {
		t.Setenv(k, "")
	}
	cfg, err := config.Load(filepath.Join(t.TempDir(), constants.ConfigFileName))
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	ctx := cli.NewContext(cfg, out, &bytes.Buffer{}, strings.NewReader(""))
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx, out
}

func addTask(t *testing.T, ctx *cli.Context, title string) models.Task {
	t.Helper()
	if err := (&TaskAddCmd{Title: title, Icon: "coffee", Color: "#84CC16"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	st, _ := ctx.State()
	tasks := st.Snapshot().Tasks
	return tasks[len(tasks)-1]
}

func TestTaskAddCmdValidate(t *testing.T) {
	tests := []struct {
		name    string
		cmd     TaskAddCmd
		wantErr error
	}{
		{"valid", TaskAddCmd{Title: "Stretch", Icon: "leaf", Color: "#10B981"}, nil},
		{"blank title", TaskAddCmd{Title: "  ", Icon: "leaf", Color: "#10B981"}, state.ErrEmptyTitle},
		{"unknown icon", TaskAddCmd{Title: "Stretch", Icon: "rocket", Color: "#10B981"}, state.ErrUnknownIcon},
		{"unknown color", TaskAddCmd{Title: "Stretch", Icon: "leaf", Color: "teal"}, state.ErrUnknownColor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cmd.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTaskLifecycle(t *testing.T) {
	ctx, out := setupTestContext(t)
	custom := addTask(t, ctx, "Chew gum")
	if !custom.IsCustom || custom.Title != "Chew gum" {
		t.Fatalf("unexpected task %+v", custom)
	}

	title := "Sugar-free gum"
	if err := (&TaskEditCmd{ID: custom.ID, Title: &title}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	st, _ := ctx.State()
	if got, _ := st.Snapshot().FindTask(custom.ID); got.Title != title {
		t.Errorf("title = %q, want %q", got.Title, title)
	}

	if err := (&TaskCompleteCmd{ID: custom.ID}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if err := (&TaskCompleteCmd{ID: "1"}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if got := len(st.Snapshot().CompletedTasks); got != 2 {
		t.Errorf("expected 2 completions, got %d", got)
	}

	out.Reset()
	if err := (&TaskListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), title) || !strings.Contains(out.String(), "Deep Breathing") {
		t.Errorf("list missing tasks:\n%s", out.String())
	}

	if err := (&TaskDeleteCmd{ID: custom.ID}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	if _, ok := st.Snapshot().FindTask(custom.ID); ok {
		t.Error("custom task should be deleted")
	}
}

func TestBuiltinTasksAreProtected(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&TaskDeleteCmd{ID: "1"}).Run(ctx); !errors.Is(err, state.ErrBuiltinTask) {
		t.Errorf("delete built-in = %v, want ErrBuiltinTask", err)
	}
	title := "Breathe"
	if err := (&TaskEditCmd{ID: "1", Title: &title}).Run(ctx); !errors.Is(err, state.ErrBuiltinTask) {
		t.Errorf("edit built-in = %v, want ErrBuiltinTask", err)
	}
	if err := (&TaskEditCmd{ID: "1"}).Run(ctx); err == nil {
		t.Error("empty edit should be rejected")
	}
	if err := (&TaskCompleteCmd{ID: "missing"}).Run(ctx); !errors.Is(err, state.ErrTaskNotFound) {
		t.Errorf("complete unknown = %v, want ErrTaskNotFound", err)
	}

	st, _ := ctx.State()
	if got := len(st.Snapshot().Tasks); got != 6 {
		t.Errorf("expected the 6 built-ins to remain, got %d", got)
	}
}
