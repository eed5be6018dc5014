package cmd

import (
	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove lifecycle hooks from ~/.claude/settings.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := settingsPath()
		if err != nil {
			return err
		}
		settings, err := loadSettings(path)
		if err != nil {
			return err
		}

		hooks, _ := settings["hooks"].(map[string]any)
		for _, event := range hookEvents {
			entries := removeOurHooks(asSlice(hooks[event]))
			if len(entries) > 0 {
				hooks[event] = entries
			} else {
				delete(hooks, event)
			}
		}
		if len(hooks) > 0 {
			settings["hooks"] = hooks
		} else {
			delete(settings, "hooks")
		}

		if err := saveSettings(path, settings); err != nil {
			return err
		}
		cmd.Printf("Hooks removed from %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}
