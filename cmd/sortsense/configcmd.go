package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sortsense/sortsense/internal/cli"
	"github.com/sortsense/sortsense/internal/config"
)

func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	cmd.AddCommand(configInitCmd())

	return cmd
}

func configInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a starter config file with the built-in defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("failed to get home directory: %w", err)
				}
				path = filepath.Join(home, ".config", "sortsense", "config.yaml")
			}

			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config file already exists: %s", path)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}

			data, err := renderConfigTemplate()
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o640); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}

			fmt.Println(cli.FormatSuccess("Wrote " + path))
			return nil
		},
	}

	return cmd
}

// configTemplate mirrors the YAML layout Load expects.
type configTemplate struct {
	Settings   settingsTemplate   `yaml:"settings"`
	Categories []categoryTemplate `yaml:"categories"`
	Database   databaseTemplate   `yaml:"database"`
	Logging    loggingTemplate    `yaml:"logging"`
}

type settingsTemplate struct {
	OCRTimeout           string  `yaml:"ocr_timeout"`
	MaxTextLength        int     `yaml:"max_text_length"`
	FallbackCategory     string  `yaml:"fallback_category"`
	MinConfidence        float64 `yaml:"min_confidence"`
	BodyWeight           float64 `yaml:"body_weight"`
	FilenameBonus        float64 `yaml:"filename_bonus"`
	SaturationScore      float64 `yaml:"saturation_score"`
	MaxCollisionAttempts int     `yaml:"max_collision_attempts"`
	Workers              int     `yaml:"workers"`
	SkipHidden           bool    `yaml:"skip_hidden"`
}

type categoryTemplate struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Folder      string   `yaml:"folder"`
	Keywords    []string `yaml:"keywords"`
}

type databaseTemplate struct {
	Path string `yaml:"path"`
}

type loggingTemplate struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func renderConfigTemplate() ([]byte, error) {
	defaults := config.DefaultSettings()
	tmpl := configTemplate{
		Settings: settingsTemplate{
			OCRTimeout:           defaults.OCRTimeout.String(),
			MaxTextLength:        defaults.MaxTextLength,
			FallbackCategory:     defaults.FallbackCategory,
			MinConfidence:        defaults.MinConfidence,
			BodyWeight:           defaults.BodyWeight,
			FilenameBonus:        defaults.FilenameBonus,
			SaturationScore:      defaults.SaturationScore,
			MaxCollisionAttempts: defaults.MaxCollisionAttempts,
			Workers:              defaults.Workers,
			SkipHidden:           defaults.SkipHidden,
		},
		Database: databaseTemplate{Path: "$HOME/.local/share/sortsense/transactions.db"},
		Logging:  loggingTemplate{Level: "info", Format: "console"},
	}
	for _, cat := range config.DefaultCategories() {
		tmpl.Categories = append(tmpl.Categories, categoryTemplate{
			Name:        cat.Name,
			Description: cat.Description,
			Folder:      cat.Folder,
			Keywords:    cat.Keywords,
		})
	}

	body, err := yaml.Marshal(&tmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config template: %w", err)
	}

	header := "# sortsense configuration.\n" +
		"# Categories are matched in order; earlier categories win score ties.\n" +
		"# Set replace_default_categories: true to drop the built-in set.\n\n"
	return append([]byte(header), body...), nil
}
