package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sortsense/sortsense/internal/cli"
	"github.com/sortsense/sortsense/internal/common"
	"github.com/sortsense/sortsense/internal/config"
)

func undoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo [session-id]",
		Short: "Move files back to where an organize run found them",
		Long: `Reverse the executed moves of a session. With no argument the most
recent session is undone. Files whose destination has since
disappeared, or whose original location is now occupied, are skipped
and reported; nothing is ever overwritten.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runUndo,
	}
}

func runUndo(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	txLog, err := initTransactionLog(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = txLog.Close() }()

	eng, err := buildEngine(cfg, txLog)
	if err != nil {
		return err
	}

	sessionID := ""
	if len(args) == 1 {
		sessionID = args[0]
	}

	outcomes, err := eng.Undo(cmd.Context(), sessionID)
	if errors.Is(err, common.ErrNoSessions) {
		fmt.Println(cli.FormatSubtle("Nothing to undo: no sessions recorded yet."))
		return nil
	}
	if err != nil {
		return err
	}

	restored := 0
	skipped := 0
	for _, outcome := range outcomes {
		name := filepath.Base(outcome.Record.Source)
		if outcome.Undone {
			restored++
			fmt.Println(cli.FormatSuccess(cli.UndoIcon + " Restored: " + name))
		} else {
			skipped++
			fmt.Println(cli.FormatWarning(fmt.Sprintf("Skipped %s: %s", name, outcome.Reason)))
		}
	}

	fmt.Println()
	fmt.Println(cli.FormatTitle(fmt.Sprintf("Restored %d files, skipped %d", restored, skipped)))
	return nil
}
