package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sortsense/sortsense/internal/cli"
	"github.com/sortsense/sortsense/internal/config"
	"github.com/sortsense/sortsense/internal/engine"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <folder>",
		Short: "Analyze files without moving anything",
		Long: `Extract text from every file in the folder, score it against the
configured categories, and print the resulting breakdown. No file is
touched and nothing is written to the transaction log.`,
		Args: cobra.ExactArgs(1),
		RunE: runAnalyze,
	}

	cmd.Flags().BoolP("recursive", "r", false, "Analyze subdirectories too")
	cmd.Flags().Int("max-files", 0, "Limit how many files are analyzed (0 = no limit)")
	cmd.Flags().String("report", "", "Write a JSON report to this path")

	_ = viper.BindPFlag("analyze.recursive", cmd.Flags().Lookup("recursive"))
	_ = viper.BindPFlag("analyze.max_files", cmd.Flags().Lookup("max-files"))
	_ = viper.BindPFlag("analyze.report", cmd.Flags().Lookup("report"))

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	eng, err := buildEngine(cfg, nil)
	if err != nil {
		return err
	}

	opts := engine.Options{
		SourceDir: args[0],
		Recursive: viper.GetBool("analyze.recursive"),
		MaxFiles:  viper.GetInt("analyze.max_files"),
	}

	bar := cli.NewProgressBar(0, "Analyzing files...", nil)
	opts.Progress = func(done, total int, _ string) {
		bar.ChangeMax(total)
		_ = bar.Set(done)
	}

	summary, err := eng.Analyze(cmd.Context(), opts)
	if err != nil {
		return err
	}
	_ = bar.Finish()
	fmt.Println()

	printSummary(summary)

	if reportPath := viper.GetString("analyze.report"); reportPath != "" {
		if err := writeReport(reportPath, args[0], summary); err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess("Report written to " + reportPath))
	}

	return nil
}

// report is the serialized shape of one analysis run.
type report struct {
	Timestamp    string         `json:"timestamp"`
	SourceFolder string         `json:"source_folder"`
	TotalFiles   int            `json:"total_files"`
	ByCategory   map[string]int `json:"by_category"`
	Results      []reportEntry  `json:"results"`
}

type reportEntry struct {
	Scores     map[string]float64 `json:"scores"`
	Path       string             `json:"path"`
	Category   string             `json:"category"`
	Method     string             `json:"extraction_method"`
	Confidence float64            `json:"confidence"`
	Extracted  bool               `json:"extracted"`
	Truncated  bool               `json:"truncated"`
}

func writeReport(path, source string, summary *engine.Summary) error {
	r := report{
		Timestamp:    time.Now().Format(time.RFC3339),
		SourceFolder: source,
		TotalFiles:   summary.Total,
		ByCategory:   summary.ByCategory,
		Results:      make([]reportEntry, 0, len(summary.Results)),
	}

	for _, res := range summary.Results {
		r.Results = append(r.Results, reportEntry{
			Scores:     res.Categorization.Scores,
			Path:       res.Extraction.SourcePath,
			Category:   res.Categorization.Category,
			Method:     string(res.Extraction.Method),
			Confidence: res.Categorization.Confidence,
			Extracted:  res.Extraction.Success,
			Truncated:  res.Extraction.Truncated,
		})
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o640); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
