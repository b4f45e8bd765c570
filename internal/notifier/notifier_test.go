package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/smokefree/internal/constants"
)

type mockProcess struct {
	pid        int
	executable string
}

func (m *mockProcess) Pid() int           { return m.pid }
func (m *mockProcess) PPid() int          { return 0 }
func (m *mockProcess) Executable() string { return m.executable }

// stubSeams points every OS seam at test doubles and restores them afterwards.
func stubSeams(t *testing.T, configDir string) {
	t.Helper()
	oldConfig, oldFind, oldLook, oldRun := userConfigDirFunc, findProcessFunc, lookPathFunc, runCommandFunc
	t.Cleanup(func() {
		userConfigDirFunc, findProcessFunc, lookPathFunc, runCommandFunc = oldConfig, oldFind, oldLook, oldRun
	})
	userConfigDirFunc = func() (string, error) { return configDir, nil }
	findProcessFunc = func(pid int) (ps.Process, error) { return nil, nil }
	lookPathFunc = func(string) (string, error) { return "", errors.New("not found") }
	runCommandFunc = func(context.Context, string, ...string) error {
		t.Fatal("notify-send should not run")
		return nil
	}
}

func TestGetTrayAppConfigDir(t *testing.T) {
	tempDir := t.TempDir()
	stubSeams(t, tempDir)

	trayDir := filepath.Join(tempDir, constants.TrayAppIdentifier)
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dir != trayDir {
		t.Errorf("expected %s, got %s", trayDir, dir)
	}

	if err := os.MkdirAll(trayDir, 0o755); err != nil {
		t.Fatal(err)
	}
	customDir := "/custom/smokefree/dir"
	settings := fmt.Sprintf(`{"settings": {"lockfile_dir": %q}}`, customDir)
	if err := os.WriteFile(filepath.Join(trayDir, "settings.json"), []byte(settings), 0o644); err != nil {
		t.Fatal(err)
	}
	if dir, _ = GetTrayAppConfigDir(); dir != customDir {
		t.Errorf("expected %s, got %s", customDir, dir)
	}

	if err := os.WriteFile(filepath.Join(trayDir, "settings.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if dir, _ = GetTrayAppConfigDir(); dir != trayDir {
		t.Errorf("malformed settings should fall back to %s, got %s", trayDir, dir)
	}
}

func TestFindAndValidateTrayProcess(t *testing.T) {
	stubSeams(t, t.TempDir())
	lockfilePath := filepath.Join(t.TempDir(), constants.NotifierLockfileName)

	if _, _, err := findAndValidateTrayProcess(lockfilePath); err == nil {
		t.Error("expected error for missing lockfile")
	}

	bad := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"two parts", "8080|12345", "malformed"},
		{"garbage", "invalid", "malformed"},
		{"empty secret", "8080|12345|", "secret"},
		{"empty port", "|12345|s3cret", "port"},
		{"port out of range", "99999|12345|s3cret", "range"},
		{"bad pid", "8080|abc|s3cret", "process ID"},
	}
	for _, tt := range bad {
		t.Run(tt.name, func(t *testing.T) {
			if err := os.WriteFile(lockfilePath, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, _, err := findAndValidateTrayProcess(lockfilePath)
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("expected error containing %q, got %v", tt.wantMsg, err)
			}
		})
	}

	if err := os.WriteFile(lockfilePath, []byte("8080|12345|s3cret\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := findAndValidateTrayProcess(lockfilePath); err == nil {
		t.Error("expected error for missing process")
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: "other-app"}, nil
	}
	if _, _, err := findAndValidateTrayProcess(lockfilePath); err == nil {
		t.Error("expected error for wrong executable")
	}

	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: constants.TrayExecutablePrefix}, nil
	}
	port, secret, err := findAndValidateTrayProcess(lockfilePath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if port != "8080" || secret != "s3cret" {
		t.Errorf("got port %q secret %q", port, secret)
	}
}

func newTrayServer(t *testing.T, got *WebhookPayload) (*httptest.Server, string) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/notify" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get(constants.NotifierSecretHeader) != "test-secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte("Unauthorized"))
			return
		}
		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if payload.Title == "fail" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if got != nil {
			*got = payload
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	parts := strings.Split(server.URL, ":")
	return server, parts[len(parts)-1]
}

func TestSendNotification(t *testing.T) {
	_, port := newTrayServer(t, nil)
	n := New()
	ctx := context.Background()

	if err := n.sendNotification(ctx, port, "test-secret", WebhookPayload{Title: "hello"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := n.sendNotification(ctx, port, "", WebhookPayload{Title: "hello"}); err == nil {
		t.Error("expected error for missing secret")
	}
	if err := n.sendNotification(ctx, port, "wrong-secret", WebhookPayload{Title: "hello"}); err == nil {
		t.Error("expected error for wrong secret")
	}
	if err := n.sendNotification(ctx, port, "test-secret", WebhookPayload{Title: "fail"}); err == nil {
		t.Error("expected error for server failure")
	}
}

func TestNotifyViaTray(t *testing.T) {
	configDir := t.TempDir()
	stubSeams(t, configDir)

	var got WebhookPayload
	_, port := newTrayServer(t, &got)

	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)
	if err := os.MkdirAll(trayDir, 0o755); err != nil {
		t.Fatal(err)
	}
	lock := fmt.Sprintf("%s|4242|test-secret", port)
	if err := os.WriteFile(filepath.Join(trayDir, constants.NotifierLockfileName), []byte(lock), 0o644); err != nil {
		t.Fatal(err)
	}
	findProcessFunc = func(pid int) (ps.Process, error) {
		return &mockProcess{pid: pid, executable: constants.TrayExecutablePrefix + "-linux"}, nil
	}

	if err := New().Notify(context.Background(), "Stay strong", "Check in"); err != nil {
		t.Fatalf("Notify() = %v", err)
	}
	if got.Title != "Stay strong" || got.Body != "Check in" || got.DurationMs != constants.NotificationDurationMs {
		t.Errorf("unexpected payload %+v", got)
	}
}

func TestNotifyFallsBackToNotifySend(t *testing.T) {
	stubSeams(t, t.TempDir())

	var args []string
	lookPathFunc = func(string) (string, error) { return "/usr/bin/notify-send", nil }
	runCommandFunc = func(_ context.Context, name string, a ...string) error {
		args = append([]string{name}, a...)
		return nil
	}

	if err := New().Notify(context.Background(), "Stay strong", ""); err != nil {
		t.Fatalf("Notify() = %v", err)
	}
	if len(args) == 0 || args[0] != "/usr/bin/notify-send" || args[len(args)-1] != "Stay strong" {
		t.Errorf("unexpected notify-send invocation %v", args)
	}
}

func TestNotifyUnsupported(t *testing.T) {
	stubSeams(t, t.TempDir())

	if err := New().Notify(context.Background(), "Stay strong", ""); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Notify() = %v, want ErrUnsupported", err)
	}
}

func TestNotifyDisabled(t *testing.T) {
	stubSeams(t, t.TempDir())

	n := New()
	n.SetEnabled(false)
	if err := n.Notify(context.Background(), "Stay strong", ""); err != nil {
		t.Errorf("disabled Notify() = %v, want nil", err)
	}
}
