package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sortsense/sortsense/internal/cli"
	"github.com/sortsense/sortsense/internal/config"
	"github.com/sortsense/sortsense/internal/engine"
)

func organizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize <folder>",
		Short: "Categorize files and move them into category folders",
		Long: `Run the full pipeline: extract text, categorize each file, and move
it into <destination>/<category folder>/. Every executed move is
recorded in the transaction log so the run can be undone later.

Use --dry-run to preview the moves without touching anything.`,
		Args: cobra.ExactArgs(1),
		RunE: runOrganize,
	}

	cmd.Flags().StringP("dest", "d", "", "Base destination directory (default: the source folder)")
	cmd.Flags().Bool("dry-run", false, "Preview moves without changing anything")
	cmd.Flags().BoolP("recursive", "r", false, "Organize subdirectories too")
	cmd.Flags().Int("max-files", 0, "Limit how many files are processed (0 = no limit)")
	cmd.Flags().Float64("min-confidence", -1, "Override the minimum confidence threshold")
	cmd.Flags().Int("workers", 0, "Override the extraction worker count")

	_ = viper.BindPFlag("organize.dest", cmd.Flags().Lookup("dest"))
	_ = viper.BindPFlag("organize.dry_run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("organize.recursive", cmd.Flags().Lookup("recursive"))
	_ = viper.BindPFlag("organize.max_files", cmd.Flags().Lookup("max-files"))
	_ = viper.BindPFlag("organize.min_confidence", cmd.Flags().Lookup("min-confidence"))
	_ = viper.BindPFlag("organize.workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func runOrganize(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if mc := viper.GetFloat64("organize.min_confidence"); mc >= 0 {
		cfg.Settings.MinConfidence = mc
	}
	if w := viper.GetInt("organize.workers"); w > 0 {
		cfg.Settings.Workers = w
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dryRun := viper.GetBool("organize.dry_run")

	var eng *engine.Engine
	if dryRun {
		// A dry run must write nothing, so the transaction log is
		// never even opened.
		eng, err = buildEngine(cfg, nil)
	} else {
		txLog, logErr := initTransactionLog(cmd.Context())
		if logErr != nil {
			return logErr
		}
		defer func() { _ = txLog.Close() }()
		eng, err = buildEngine(cfg, txLog)
	}
	if err != nil {
		return err
	}

	dest := viper.GetString("organize.dest")
	if dest == "" {
		dest = args[0]
	}

	opts := engine.Options{
		SourceDir: args[0],
		DestDir:   config.ExpandPath(dest),
		Recursive: viper.GetBool("organize.recursive"),
		MaxFiles:  viper.GetInt("organize.max_files"),
		DryRun:    dryRun,
	}

	bar := cli.NewProgressBar(0, "Organizing files...", nil)
	opts.Progress = func(done, total int, _ string) {
		bar.ChangeMax(total)
		_ = bar.Set(done)
	}

	summary, err := eng.Organize(cmd.Context(), opts)
	if err != nil {
		return err
	}
	_ = bar.Finish()
	fmt.Println()

	if dryRun {
		for _, r := range summary.Results {
			if r.Move == nil {
				continue
			}
			fmt.Printf("  %s\n    %s %s\n",
				r.Move.Source,
				cli.FormatSubtle("→"),
				r.Move.Destination)
		}
	}

	printSummary(summary)
	printFailures(summary)

	if !dryRun && summary.SessionID != "" {
		fmt.Println(cli.FormatSubtle(
			fmt.Sprintf("Undo with: sortsense undo %s", summary.SessionID)))
	}

	return nil
}
