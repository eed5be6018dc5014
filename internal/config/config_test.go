package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	t.Setenv("CLAUDE_MONITOR_DIR", "/tmp/cm-test")

	cfg := Defaults()
	if cfg.SessionsDir != filepath.Join("/tmp/cm-test", "sessions") {
		t.Fatalf("sessions dir = %q", cfg.SessionsDir)
	}
	if time.Duration(cfg.WaitingTTL) != 4*time.Hour {
		t.Fatalf("waiting ttl = %v", time.Duration(cfg.WaitingTTL))
	}
	if time.Duration(cfg.ActiveTTL) != 15*time.Minute {
		t.Fatalf("active ttl = %v", time.Duration(cfg.ActiveTTL))
	}
	if time.Duration(cfg.EndedTTL) != 24*time.Hour {
		t.Fatalf("ended ttl = %v", time.Duration(cfg.EndedTTL))
	}
}

func TestStateDirHonorsOverride(t *testing.T) {
	t.Setenv("CLAUDE_MONITOR_DIR", "/custom/state")
	if got := StateDir(); got != "/custom/state" {
		t.Fatalf("StateDir() = %q", got)
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	t.Setenv("CLAUDE_MONITOR_DIR", t.TempDir())

	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"sessions_dir": "/data/sessions", "active_ttl": "30m"}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadFile(path)
	if err != nil {
		t.Fatalf("loadFile: %v", err)
	}
	if cfg.SessionsDir != "/data/sessions" {
		t.Fatalf("sessions dir = %q, want override", cfg.SessionsDir)
	}
	if time.Duration(cfg.ActiveTTL) != 30*time.Minute {
		t.Fatalf("active ttl = %v, want 30m", time.Duration(cfg.ActiveTTL))
	}
	// Fields absent from the file keep their defaults.
	if time.Duration(cfg.WaitingTTL) != 4*time.Hour {
		t.Fatalf("waiting ttl = %v, want default 4h", time.Duration(cfg.WaitingTTL))
	}
}

func TestLoadFileMissingReturnsDefaults(t *testing.T) {
	cfg, err := loadFile(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("loadFile: %v", err)
	}
	if cfg != Defaults() {
		t.Fatalf("expected defaults for a missing file, got %+v", cfg)
	}
}

func TestLoadFileParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{bad"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := loadFile(path)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if parseErr.Path != path {
		t.Fatalf("parse error path = %q, want %q", parseErr.Path, path)
	}
}

func TestDurationRoundTrip(t *testing.T) {
	d := Duration(90 * time.Second)
	data, err := d.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	if string(data) != `"1m30s"` {
		t.Fatalf("marshaled to %s", data)
	}

	var back Duration
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatalf("UnmarshalJSON: %v", err)
	}
	if back != d {
		t.Fatalf("round trip: %v != %v", back, d)
	}

	if err := back.UnmarshalJSON([]byte(`"soon"`)); err == nil {
		t.Fatal("expected error for an unparseable duration")
	}
}
