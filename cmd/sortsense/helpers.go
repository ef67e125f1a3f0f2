package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/sortsense/sortsense/internal/classification"
	"github.com/sortsense/sortsense/internal/cli"
	"github.com/sortsense/sortsense/internal/common"
	"github.com/sortsense/sortsense/internal/config"
	"github.com/sortsense/sortsense/internal/engine"
	"github.com/sortsense/sortsense/internal/extract"
	"github.com/sortsense/sortsense/internal/model"
	"github.com/sortsense/sortsense/internal/service"
	"github.com/sortsense/sortsense/internal/storage"
)

// initTransactionLog opens the SQLite transaction log with proper path
// expansion and runs migrations.
func initTransactionLog(ctx context.Context) (service.TransactionLog, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/sortsense/transactions.db"
	}
	dbPath = config.ExpandPath(dbPath)

	log, err := storage.NewSQLiteLog(dbPath)
	if err != nil {
		return nil, common.NewUserError("failed to open transaction log", err)
	}

	if err := log.Migrate(ctx); err != nil {
		_ = log.Close()
		return nil, common.NewUserError("failed to migrate transaction log", err)
	}

	return log, nil
}

// buildEngine wires the pipeline components from the loaded config.
func buildEngine(cfg *config.Config, log service.TransactionLog) (*engine.Engine, error) {
	classifier, err := classification.New(cfg)
	if err != nil {
		return nil, err
	}
	return engine.New(cfg, extract.New(cfg), classifier, log), nil
}

// printSummary renders a run summary to stdout.
func printSummary(summary *engine.Summary) {
	var b strings.Builder

	categories := make([]string, 0, len(summary.ByCategory))
	for name := range summary.ByCategory {
		categories = append(categories, name)
	}
	sort.Slice(categories, func(i, j int) bool {
		if summary.ByCategory[categories[i]] != summary.ByCategory[categories[j]] {
			return summary.ByCategory[categories[i]] > summary.ByCategory[categories[j]]
		}
		return categories[i] < categories[j]
	})

	for _, name := range categories {
		fmt.Fprintf(&b, "%s %s: %d\n", cli.FolderIcon, name, summary.ByCategory[name])
	}

	fmt.Fprintf(&b, "\nFiles analyzed: %d", summary.Total)
	if summary.DryRun {
		fmt.Fprintf(&b, "\nWould move: %d", summary.Moved)
	} else if summary.SessionID != "" {
		fmt.Fprintf(&b, "\nMoved: %d", summary.Moved)
		fmt.Fprintf(&b, "\nSession: %s", summary.SessionID)
	}
	if summary.Failed > 0 {
		fmt.Fprintf(&b, "\nFailed: %d", summary.Failed)
	}

	title := "Analysis Summary"
	if summary.DryRun {
		title = "Dry Run Summary"
	} else if summary.SessionID != "" {
		title = "Organize Summary"
	}

	fmt.Println(cli.RenderBox(title, b.String()))
}

// printFailures lists per-file failures after the summary box.
func printFailures(summary *engine.Summary) {
	for _, r := range summary.Results {
		if r.Move != nil && r.Move.Status == model.StatusFailed {
			fmt.Println(cli.FormatError(fmt.Sprintf("%s: %s", r.Move.Source, r.Move.Error)))
		}
	}
}
