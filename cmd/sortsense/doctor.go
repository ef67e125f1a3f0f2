package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sortsense/sortsense/internal/cli"
	"github.com/sortsense/sortsense/internal/config"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check availability of the external extraction tools",
		Long: `Report which external binaries were found. Missing tools don't stop
a run; the affected extraction strategies simply degrade to
filename-only categorization.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			fmt.Println(cli.FormatTitle("Tool detection"))
			printTool("tesseract (image OCR)", cfg.Tools.Tesseract)
			printTool("pdftoppm (scanned PDF rendering)", cfg.Tools.PDFToPPM)
			return nil
		},
	}
}

func printTool(name, path string) {
	if path != "" {
		fmt.Println("  " + cli.FormatSuccess(fmt.Sprintf("%s: %s", name, path)))
	} else {
		fmt.Println("  " + cli.FormatWarning(name+": not found"))
	}
}
