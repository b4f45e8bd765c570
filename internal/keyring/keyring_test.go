package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetAndGetConnectionString(t *testing.T) {
	gokeyring.MockInit()

	connStr := "postgres://smoker@localhost:5432/smokefree?sslmode=disable"
	if err := SetConnectionString("  " + connStr + "\n"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("GetConnectionString() = %q, want %q", got, connStr)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	for _, in := range []string{"", "   "} {
		if err := SetConnectionString(in); !errors.Is(err, ErrEmptyConnectionString) {
			t.Errorf("SetConnectionString(%q) = %v, want ErrEmptyConnectionString", in, err)
		}
	}
}

func TestDeleteConnectionString(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("postgres://smoker@localhost/smokefree"); err != nil {
		t.Fatal(err)
	}
	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() after delete = %v, want ErrNotFound", err)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteConnectionString() = %v, want ErrNotFound", err)
	}
}

func TestKeyringUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("dbus: no session bus"))
	defer gokeyring.MockInit()

	if _, err := GetConnectionString(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("GetConnectionString() = %v, want ErrKeyringUnavailable", err)
	}
	if IsAvailable() {
		t.Error("IsAvailable() should be false when the backend errors")
	}
	if s := CurrentStatus(); s.Available || s.Stored {
		t.Errorf("CurrentStatus() = %+v", s)
	}
}

func TestCurrentStatus(t *testing.T) {
	gokeyring.MockInit()

	if s := CurrentStatus(); !s.Available || s.Stored {
		t.Errorf("empty keyring status = %+v", s)
	}
	if err := SetConnectionString("postgres://smoker@localhost/smokefree"); err != nil {
		t.Fatal(err)
	}
	s := CurrentStatus()
	if !s.Stored || s.String() != "connection string stored" {
		t.Errorf("status after set = %+v (%s)", s, s)
	}
}

func TestRedact(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"postgres://smoker:hunter2@db:5432/smokefree", "postgres://smoker:****@db:5432/smokefree"},
		{"postgres://smoker@db/smokefree", "postgres://smoker@db/smokefree"},
		{"host=db user=smoker", "host=db user=smoker"},
	}
	for _, tt := range tests {
		if got := Redact(tt.in); got != tt.want {
			t.Errorf("Redact(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
