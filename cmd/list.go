package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/luxlabs/claude-monitor/internal/config"
	"github.com/luxlabs/claude-monitor/internal/logging"
	"github.com/luxlabs/claude-monitor/internal/monitor"
	"github.com/luxlabs/claude-monitor/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print a one-shot snapshot of current sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd)
	},
}

func runList(cmd *cobra.Command) error {
	st, err := store.New(cfg.SessionsDir)
	if err != nil {
		return err
	}

	log := logging.New("monitor", config.StateDir())
	engine := monitor.NewEngine(st, cfg.IDEDir, nil, log)
	engine.SetThresholds(thresholds())

	rows := engine.Tick(time.Now())
	if len(rows) == 0 {
		cmd.Println("no active sessions")
		return nil
	}

	cmd.Printf("%-36s  %-20s  %-10s  %-8s  %-8s  %s\n",
		"SESSION", "PROJECT", "STATUS", "TOOLS", "IDE", "TOPIC")
	for _, row := range rows {
		rec := row.Record
		ideName := "-"
		if row.IDE != nil {
			ideName = row.IDE.IdeName
		}
		topic := rec.Topic
		if topic == "" {
			topic = rec.LastPrompt
		}
		cmd.Printf("%-36s  %-20s  %-10s  %-8d  %-8s  %s\n",
			rec.SessionID, rec.Project, rec.Status, rec.ToolCount, ideName, topic)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
}
