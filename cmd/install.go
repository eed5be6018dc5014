package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// hookEvents are the lifecycle events registered in Claude Code's settings.
var hookEvents = []string{
	"SessionStart",
	"UserPromptSubmit",
	"PreToolUse",
	"PermissionRequest",
	"PostToolUse",
	"Stop",
	"SessionEnd",
	"Notification",
	"SubagentStart",
	"SubagentStop",
}

// usageHookEvents additionally trigger a usage-data refresh.
var usageHookEvents = map[string]bool{
	"Stop":             true,
	"UserPromptSubmit": true,
}

// hookMarker identifies our entries inside settings.json so install and
// uninstall never touch hooks owned by other tools.
const hookMarker = "claude-monitor"

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Register lifecycle hooks in ~/.claude/settings.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settingsPath()
		if err != nil {
			return err
		}
		settings, err := loadSettings(path)
		if err != nil {
			return err
		}

		command := hookCommand("hook")
		usageCommand := hookCommand("usage-hook")
		hooks, _ := settings["hooks"].(map[string]any)
		if hooks == nil {
			hooks = make(map[string]any)
		}

		for _, event := range hookEvents {
			handlers := []any{
				map[string]any{
					"type":    "command",
					"command": command,
					"async":   true,
				},
			}
			if usageHookEvents[event] {
				handlers = append(handlers, map[string]any{
					"type":    "command",
					"command": usageCommand,
					"async":   true,
				})
			}

			entries := removeOurHooks(asSlice(hooks[event]))
			entries = append(entries, map[string]any{
				"matcher": ".*",
				"hooks":   handlers,
			})
			hooks[event] = entries
		}
		settings["hooks"] = hooks

		if err := saveSettings(path, settings); err != nil {
			return err
		}
		cmd.Printf("Hooks installed in %s\n", path)
		cmd.Printf("Monitoring events: %s\n", strings.Join(hookEvents, ", "))
		return nil
	},
}

func settingsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot resolve home directory: %w", err)
	}
	return filepath.Join(home, ".claude", "settings.json"), nil
}

// hookCommand returns the command line to register for a subcommand,
// preferring the absolute path of the installed binary so hooks work without
// PATH setup.
func hookCommand(sub string) string {
	if exe, err := exec.LookPath("claude-monitor"); err == nil {
		return exe + " " + sub
	}
	return "claude-monitor " + sub
}

func loadSettings(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]any), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return settings, nil
}

func saveSettings(path string, settings map[string]any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

// removeOurHooks filters out entries registered by this tool, recognizing
// both the flat format {"command": "..."} and the nested format
// {"matcher": "...", "hooks": [{"command": "..."}]}.
func removeOurHooks(entries []any) []any {
	kept := make([]any, 0, len(entries))
	for _, e := range entries {
		if !isOurHook(e) {
			kept = append(kept, e)
		}
	}
	return kept
}

func isOurHook(entry any) bool {
	m, ok := entry.(map[string]any)
	if !ok {
		return false
	}
	if cmd, ok := m["command"].(string); ok && strings.Contains(cmd, hookMarker) {
		return true
	}
	for _, sub := range asSlice(m["hooks"]) {
		sm, ok := sub.(map[string]any)
		if !ok {
			continue
		}
		if cmd, ok := sm["command"].(string); ok && strings.Contains(cmd, hookMarker) {
			return true
		}
	}
	return false
}

func init() {
	rootCmd.AddCommand(installCmd)
}
