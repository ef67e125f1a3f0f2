package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sortsense/sortsense/internal/cli"
)

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Manage recorded organize sessions",
	}

	cmd.AddCommand(runsListCmd())
	cmd.AddCommand(runsPruneCmd())

	return cmd
}

func runsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions, most recent first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			txLog, err := initTransactionLog(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = txLog.Close() }()

			sessions, err := txLog.ListSessions(cmd.Context())
			if err != nil {
				return err
			}

			if len(sessions) == 0 {
				fmt.Println(cli.FormatSubtle("No sessions recorded yet."))
				return nil
			}

			fmt.Println(cli.FormatTitle("Recorded sessions"))
			for _, s := range sessions {
				status := "in progress"
				if s.CompletedAt != nil {
					status = "completed"
				}
				fmt.Printf("  %s  %s  %d moves  %s\n",
					s.ID,
					s.StartedAt.Local().Format("2006-01-02 15:04"),
					s.MoveCount,
					cli.FormatSubtle(status))
			}
			return nil
		},
	}
}

func runsPruneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete sessions older than the retention window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			days := viper.GetInt("runs.prune_days")

			txLog, err := initTransactionLog(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = txLog.Close() }()

			cutoff := time.Now().AddDate(0, 0, -days)
			removed, err := txLog.PruneSessions(cmd.Context(), cutoff)
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Removed %d sessions older than %d days", removed, days)))
			return nil
		},
	}

	cmd.Flags().Int("days", 30, "Delete sessions older than this many days")
	_ = viper.BindPFlag("runs.prune_days", cmd.Flags().Lookup("days"))

	return cmd
}
