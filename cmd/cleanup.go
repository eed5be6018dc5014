package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/luxlabs/claude-monitor/internal/store"
)

var cleanupMaxAge time.Duration

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete session records older than --max-age",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.New(cfg.SessionsDir)
		if err != nil {
			return err
		}

		maxAge := cleanupMaxAge
		if maxAge <= 0 {
			maxAge = time.Duration(cfg.CleanupAge)
		}

		removed, err := st.Purge(maxAge, time.Now())
		if err != nil {
			return err
		}
		cmd.Printf("removed %d session record(s) older than %s\n", removed, maxAge)
		return nil
	},
}

func init() {
	cleanupCmd.Flags().DurationVar(&cleanupMaxAge, "max-age", 0,
		"delete records not updated within this duration (default from config)")
	rootCmd.AddCommand(cleanupCmd)
}
