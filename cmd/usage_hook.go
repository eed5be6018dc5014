package cmd

import (
	"github.com/spf13/cobra"

	"github.com/luxlabs/claude-monitor/internal/config"
	"github.com/luxlabs/claude-monitor/internal/logging"
	"github.com/luxlabs/claude-monitor/internal/usage"
)

// usageHookCmd refreshes usage.json in the state directory. Like hook, it
// runs inside another program's lifecycle and therefore always exits 0.
var usageHookCmd = &cobra.Command{
	Use:    "usage-hook",
	Short:  "Fetch account usage data into the monitor state directory",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New("usage", config.StateDir())

		client := usage.NewClient(config.StateDir())
		if err := client.Fetch(cmd.Context()); err != nil {
			log.WithError(err).Debug("usage fetch skipped")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usageHookCmd)
}
