package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sortsense/sortsense/internal/cli"
	"github.com/sortsense/sortsense/internal/config"
)

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the configured categories and their keywords",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle("Categories"))
			for _, cat := range cfg.Categories {
				keywords := strings.Join(cat.Keywords, ", ")
				if len(cat.Keywords) > 8 {
					keywords = strings.Join(cat.Keywords[:8], ", ") + ", …"
				}
				fmt.Printf("  %s %s → %s/\n", cli.FolderIcon, cat.Name, cat.Folder)
				fmt.Printf("     %s\n", cat.Description)
				fmt.Printf("     %s\n", cli.FormatSubtle(keywords))
			}

			fmt.Printf("\n  Fallback: %s (files below %.0f%% confidence)\n",
				cfg.Settings.FallbackCategory, cfg.Settings.MinConfidence*100)
			return nil
		},
	}
}
