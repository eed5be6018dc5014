package cmd

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/luxlabs/claude-monitor/internal/config"
	"github.com/luxlabs/claude-monitor/internal/logging"
	"github.com/luxlabs/claude-monitor/internal/monitor"
	"github.com/luxlabs/claude-monitor/internal/store"
	"github.com/luxlabs/claude-monitor/internal/tui"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "claude-monitor",
	Short: "Live dashboard for Claude Code sessions",
	Long: `claude-monitor tracks Claude Code sessions through lifecycle hook events
and shows them in a live terminal dashboard: what each session is doing,
which one is blocked on a permission prompt, and which editor it belongs to.

Run "claude-monitor install" once to register the hooks, then run
"claude-monitor" in any terminal.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		cfg = c
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Piped invocations get a one-shot listing instead of the dashboard.
		if !term.IsTerminal(os.Stdin.Fd()) {
			return runList(cmd)
		}
		return runDashboard()
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func thresholds() monitor.Thresholds {
	return monitor.Thresholds{
		Waiting: time.Duration(cfg.WaitingTTL),
		Active:  time.Duration(cfg.ActiveTTL),
		Ended:   time.Duration(cfg.EndedTTL),
	}
}

func runDashboard() error {
	st, err := store.New(cfg.SessionsDir)
	if err != nil {
		return err
	}

	log := logging.New("monitor", config.StateDir())
	badge := tui.NewBadge()
	engine := monitor.NewEngine(st, cfg.IDEDir, badge, log)
	engine.SetThresholds(thresholds())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go engine.Run(ctx, time.Duration(cfg.TickInterval))

	return tui.Run(engine, st, badge, time.Duration(cfg.CleanupAge))
}
