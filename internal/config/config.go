package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all configurable claude-monitor settings.
type Config struct {
	SessionsDir  string   `json:"sessions_dir"`  // override session record directory
	IDEDir       string   `json:"ide_dir"`       // override IDE lock file directory
	TickInterval Duration `json:"tick_interval"` // monitor refresh interval
	WaitingTTL   Duration `json:"waiting_ttl"`   // staleness threshold for WAITING sessions
	ActiveTTL    Duration `json:"active_ttl"`    // staleness threshold for in-flight sessions
	EndedTTL     Duration `json:"ended_ttl"`     // staleness threshold for ENDED sessions
	CleanupAge   Duration `json:"cleanup_age"`   // default --max-age for the cleanup command
}

// Duration is a time.Duration that marshals to/from strings like "15m".
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// StateDir returns the monitor state directory, honoring the
// CLAUDE_MONITOR_DIR override (used by tests and non-standard installs).
func StateDir() string {
	if dir := os.Getenv("CLAUDE_MONITOR_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".claude-monitor"
	}
	return filepath.Join(home, ".claude", "monitor")
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	return Config{
		SessionsDir:  filepath.Join(StateDir(), "sessions"),
		IDEDir:       defaultIDEDir(),
		TickInterval: Duration(2 * time.Second),
		WaitingTTL:   Duration(4 * time.Hour),
		ActiveTTL:    Duration(15 * time.Minute),
		EndedTTL:     Duration(24 * time.Hour),
		CleanupAge:   Duration(time.Hour),
	}
}

func defaultIDEDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".claude", "ide")
}

// Load reads ~/.config/claude-monitor/config.json and merges it over the
// defaults. Returns defaults if the file is absent.
func Load() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Defaults(), nil
	}
	return loadFile(filepath.Join(home, ".config", "claude-monitor", "config.json"))
}

// loadFile reads and parses a JSON config file at path, merging the values it
// sets over the defaults.
func loadFile(path string) (Config, error) {
	result := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return result, nil
		}
		return result, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return result, &ParseError{Path: path, Err: err}
	}

	if cfg.SessionsDir != "" {
		result.SessionsDir = cfg.SessionsDir
	}
	if cfg.IDEDir != "" {
		result.IDEDir = cfg.IDEDir
	}
	if cfg.TickInterval > 0 {
		result.TickInterval = cfg.TickInterval
	}
	if cfg.WaitingTTL > 0 {
		result.WaitingTTL = cfg.WaitingTTL
	}
	if cfg.ActiveTTL > 0 {
		result.ActiveTTL = cfg.ActiveTTL
	}
	if cfg.EndedTTL > 0 {
		result.EndedTTL = cfg.EndedTTL
	}
	if cfg.CleanupAge > 0 {
		result.CleanupAge = cfg.CleanupAge
	}
	return result, nil
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
