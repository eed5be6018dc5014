package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/luxlabs/claude-monitor/internal/config"
	"github.com/luxlabs/claude-monitor/internal/hook"
	"github.com/luxlabs/claude-monitor/internal/logging"
	"github.com/luxlabs/claude-monitor/internal/store"
)

// hookCmd consumes one lifecycle event from stdin. It always exits 0:
// a hook that fails must never break the session that invoked it, so
// every failure is logged and swallowed.
var hookCmd = &cobra.Command{
	Use:    "hook",
	Short:  "Process one lifecycle event from stdin",
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.New("hook", config.StateDir())

		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			log.WithError(err).Error("cannot read event from stdin")
			return nil
		}

		ev, err := hook.ParseEvent(data)
		if err != nil {
			log.WithError(err).Warn("ignoring event")
			return nil
		}

		st, err := store.New(cfg.SessionsDir)
		if err != nil {
			log.WithError(err).Error("cannot open session store")
			return nil
		}

		if err := hook.NewProcessor(st, log).Process(ev); err != nil {
			log.WithError(err).WithField("session_id", ev.SessionID).Error("failed to apply event")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(hookCmd)
}
