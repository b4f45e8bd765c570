package reminders

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/smokefree/internal/cli"
	"github.com/julianstephens/smokefree/internal/config"
	"github.com/julianstephens/smokefree/internal/constants"
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
	ctx.Now = func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.Local) }
	return ctx, out
}

func TestRemindAddListRemove(t *testing.T) {
	ctx, out := setupTestContext(t)

	if err := (&RemindAddCmd{At: "20:30", Title: "Evening check", Body: "How was today?"}).Run(ctx); err != nil {
		t.Fatalf("RemindAddCmd.Run() error = %v", err)
	}

	saved, err := config.Load(ctx.Config.Path())
	if err != nil {
		t.Fatal(err)
	}
	if len(saved.Reminders) != 2 || saved.Reminders[1].Hour != 20 || saved.Reminders[1].Minute != 30 {
		t.Fatalf("reminder not persisted: %+v", saved.Reminders)
	}

	out.Reset()
	if err := (&RemindListCmd{}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"1. 09:00", "2. 20:30", "next 2025-06-16 09:00", "next 2025-06-15 20:30"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("list missing %q:\n%s", want, out.String())
		}
	}

	if err := (&RemindRemoveCmd{Index: 1}).Run(ctx); err != nil {
		t.Fatal(err)
	}
	saved, _ = config.Load(ctx.Config.Path())
	if len(saved.Reminders) != 1 || saved.Reminders[0].Title != "Evening check" {
		t.Errorf("unexpected reminders after remove: %+v", saved.Reminders)
	}
	if err := (&RemindRemoveCmd{Index: 5}).Run(ctx); err == nil {
		t.Error("expected error for an out-of-range index")
	}
}

func TestRemindAddRejectsBadInput(t *testing.T) {
	ctx, _ := setupTestContext(t)

	for _, at := range []string{"25:00", "9am", "12:75"} {
		if err := (&RemindAddCmd{At: at, Title: "x"}).Run(ctx); err == nil {
			t.Errorf("RemindAddCmd{At: %q} should fail", at)
		}
	}
	if err := (&RemindAddCmd{At: "09:00", Title: " "}).Run(ctx); err == nil {
		t.Error("blank title should fail")
	}
	if len(ctx.Config.Reminders) != 1 {
		t.Errorf("rejected reminders must not be added, got %d", len(ctx.Config.Reminders))
	}
}

func TestRemindNowWithNotificationsDisabled(t *testing.T) {
	ctx, out := setupTestContext(t)
	ctx.Config.Notifications.Enabled = false

	if err := (&RemindNowCmd{Title: "Stay strong"}).Run(ctx); err != nil {
		t.Fatalf("RemindNowCmd.Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "Reminder sent") {
		t.Errorf("unexpected output %q", out.String())
	}
}
