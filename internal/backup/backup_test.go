package backup

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/smokefree/internal/constants"
	kvsqlite "github.com/julianstephens/smokefree/internal/kv/sqlite"
)

// setupTestDB creates a migrated smokefree database holding quitDate=value.
func setupTestDB(t *testing.T, value string) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), constants.DatabaseFileName)
	writeQuitDate(t, dbPath, value)
	return dbPath
}

func writeQuitDate(t *testing.T, dbPath, value string) {
	t.Helper()
	store := kvsqlite.New(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init test database: %v", err)
	}
	if err := store.Set(constants.KeyQuitDate, value); err != nil {
		t.Fatalf("failed to write test data: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}
}

func readQuitDate(t *testing.T, dbPath string) string {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var v string
	if err := db.QueryRow("SELECT value FROM kv WHERE key = ?", constants.KeyQuitDate).Scan(&v); err != nil {
		t.Fatalf("failed to read quit date: %v", err)
	}
	return v
}

// steppingClock advances one second per call.
func steppingClock(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		cur = cur.Add(time.Second)
		return cur
	}
}

func TestCreate(t *testing.T) {
	dbPath := setupTestDB(t, "2025-01-01T00:00:00Z")
	mgr := NewManager(dbPath)

	info, err := mgr.Create()
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if filepath.Dir(info.Path) != filepath.Join(filepath.Dir(dbPath), constants.BackupDirName) {
		t.Errorf("backup written to unexpected dir %s", info.Path)
	}
	if info.Size == 0 {
		t.Error("backup should not be empty")
	}
	if got := readQuitDate(t, info.Path); got != "2025-01-01T00:00:00Z" {
		t.Errorf("backup quit date = %q", got)
	}
}

func TestCreateWithoutDatabase(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), constants.DatabaseFileName))
	if _, err := mgr.Create(); !errors.Is(err, ErrNoDatabase) {
		t.Errorf("Create() = %v, want ErrNoDatabase", err)
	}
}

func TestRotation(t *testing.T) {
	dbPath := setupTestDB(t, "x")
	mgr := NewManager(dbPath)
	mgr.now = steppingClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local))

	var first Info
	for i := 0; i < constants.MaxBackups+3; i++ {
		info, err := mgr.Create()
		if err != nil {
			t.Fatalf("Create() #%d failed: %v", i, err)
		}
		if i == 0 {
			first = info
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != constants.MaxBackups {
		t.Fatalf("expected %d backups after rotation, got %d", constants.MaxBackups, len(backups))
	}
	if _, err := os.Stat(first.Path); !os.IsNotExist(err) {
		t.Error("oldest backup should have been rotated away")
	}
}

func TestList(t *testing.T) {
	dbPath := setupTestDB(t, "x")
	mgr := NewManager(dbPath)

	if backups, err := mgr.List(); err != nil || len(backups) != 0 {
		t.Fatalf("List() on missing dir = %v, %v", backups, err)
	}

	mgr.now = steppingClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local))
	for i := 0; i < 3; i++ {
		if _, err := mgr.Create(); err != nil {
			t.Fatal(err)
		}
	}
	for _, name := range []string{"notes.txt", "smokefree-garbage.db", "smokefree-20250601-120000-x.db"} {
		if err := os.WriteFile(filepath.Join(mgr.Dir(), name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	for i := 1; i < len(backups); i++ {
		if !backups[i-1].Timestamp.After(backups[i].Timestamp) {
			t.Error("backups should be sorted newest first")
		}
	}
	if backups[0].Name() != "smokefree-20250601-120003.db" {
		t.Errorf("newest backup = %s", backups[0].Name())
	}
}

func TestUniqueFilenames(t *testing.T) {
	dbPath := setupTestDB(t, "x")
	mgr := NewManager(dbPath)
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	mgr.now = func() time.Time { return fixed }

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		info, err := mgr.Create()
		if err != nil {
			t.Fatal(err)
		}
		if seen[info.Path] {
			t.Fatalf("duplicate backup path %s", info.Path)
		}
		seen[info.Path] = true
	}

	backups, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 3 {
		t.Errorf("counter-suffixed backups should be listed, got %d", len(backups))
	}
}

func TestRestore(t *testing.T) {
	dbPath := setupTestDB(t, "original")
	mgr := NewManager(dbPath)
	mgr.now = steppingClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local))

	snap, err := mgr.Create()
	if err != nil {
		t.Fatal(err)
	}
	writeQuitDate(t, dbPath, "changed")

	previous, err := mgr.Restore(mgr.Resolve(snap.Name()))
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	if got := readQuitDate(t, dbPath); got != "original" {
		t.Errorf("restored quit date = %q, want original", got)
	}
	if previous == nil {
		t.Fatal("restore should snapshot the current database first")
	}
	if got := readQuitDate(t, previous.Path); got != "changed" {
		t.Errorf("pre-restore snapshot quit date = %q, want changed", got)
	}
	if _, err := os.Stat(dbPath + ".restore.tmp"); !os.IsNotExist(err) {
		t.Error("temporary restore file should not remain")
	}
}

func TestRestoreRejectsInvalidFiles(t *testing.T) {
	dbPath := setupTestDB(t, "keep")
	mgr := NewManager(dbPath)

	if _, err := mgr.Restore(filepath.Join(t.TempDir(), "missing.db")); err == nil {
		t.Error("expected error for missing backup")
	}

	junk := filepath.Join(t.TempDir(), "junk.db")
	if err := os.WriteFile(junk, []byte("not a database"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Restore(junk); err == nil {
		t.Error("expected error for corrupt backup")
	}

	other := filepath.Join(t.TempDir(), "other.db")
	db, err := sql.Open("sqlite", other)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Exec("CREATE TABLE notes (body TEXT)"); err != nil {
		t.Fatal(err)
	}
	db.Close()
	if _, err := mgr.Restore(other); err == nil {
		t.Error("expected error for a database without the kv table")
	}

	if got := readQuitDate(t, dbPath); got != "keep" {
		t.Errorf("failed restores must leave the database untouched, got %q", got)
	}
}

func TestParseName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"smokefree-20250601-120000.db", true},
		{"smokefree-20250601-120000-2.db", true},
		{"smokefree-20250601-1200.db", false},
		{"daylog-20250601-120000.db", false},
		{"smokefree-20250601-120000.sql", false},
	}
	for _, tt := range tests {
		if _, ok := parseName(tt.name); ok != tt.ok {
			t.Errorf("parseName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
	}
}
