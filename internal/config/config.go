// Package config loads and validates application configuration.
//
// Configuration is read through viper from a YAML file, merged over the
// built-in defaults. Validation happens here, before any file
// processing begins, so the pipeline never sees a malformed category.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/sortsense/sortsense/internal/common"
	"github.com/sortsense/sortsense/internal/model"
)

// Settings holds the runtime tunables for extraction, scoring and moves.
type Settings struct {
	OCRTimeout           time.Duration `mapstructure:"ocr_timeout"`
	MaxTextLength        int           `mapstructure:"max_text_length"`
	PDFMinTextLength     int           `mapstructure:"pdf_min_text_length"`
	MaxSheetRows         int           `mapstructure:"max_sheet_rows"`
	FallbackCategory     string        `mapstructure:"fallback_category"`
	MinConfidence        float64       `mapstructure:"min_confidence"`
	BodyWeight           float64       `mapstructure:"body_weight"`
	FilenameBonus        float64       `mapstructure:"filename_bonus"`
	SaturationScore      float64       `mapstructure:"saturation_score"`
	MaxCollisionAttempts int           `mapstructure:"max_collision_attempts"`
	Workers              int           `mapstructure:"workers"`
	SkipHidden           bool          `mapstructure:"skip_hidden"`
}

// Tools holds resolved paths to the external extraction binaries.
// Empty values mean the tool was not found; extraction degrades rather
// than failing the run.
type Tools struct {
	Tesseract string `mapstructure:"tesseract"`
	PDFToPPM  string `mapstructure:"pdftoppm"`
}

// Config is the immutable configuration object handed to the extractor,
// categorizer and reorganizer. No component mutates it after Load.
type Config struct {
	Categories []model.Category
	Settings   Settings
	Tools      Tools
}

// DefaultSettings returns the settings used when the config file leaves
// them unset.
func DefaultSettings() Settings {
	return Settings{
		OCRTimeout:           30 * time.Second,
		MaxTextLength:        2000,
		PDFMinTextLength:     32,
		MaxSheetRows:         50,
		FallbackCategory:     FallbackCategory,
		MinConfidence:        0.3,
		BodyWeight:           1.0,
		FilenameBonus:        0.5,
		SaturationScore:      4.0,
		MaxCollisionAttempts: 100,
		Workers:              4,
		SkipHidden:           true,
	}
}

// categoryFile mirrors the YAML shape of one category entry. Categories
// are a sequence, not a map, so the configured ordering survives
// loading; that ordering is the score tie-breaker.
type categoryFile struct {
	Name        string   `mapstructure:"name"`
	Description string   `mapstructure:"description"`
	Folder      string   `mapstructure:"folder"`
	Keywords    []string `mapstructure:"keywords"`
}

// Load builds a Config from the global viper instance merged over the
// built-in defaults, and validates it.
func Load() (*Config, error) {
	settings := DefaultSettings()
	if viper.IsSet("settings") {
		if err := viper.UnmarshalKey("settings", &settings); err != nil {
			return nil, fmt.Errorf("%w: settings: %v", common.ErrInvalidConfig, err)
		}
	}

	categories := DefaultCategories()
	if viper.IsSet("categories") {
		var entries []categoryFile
		if err := viper.UnmarshalKey("categories", &entries); err != nil {
			return nil, fmt.Errorf("%w: categories: %v", common.ErrInvalidConfig, err)
		}

		replace := viper.GetBool("replace_default_categories")
		if replace {
			categories = nil
		}
		categories = mergeCategories(categories, entries)
	}

	tools := Tools{}
	if viper.IsSet("tools") {
		if err := viper.UnmarshalKey("tools", &tools); err != nil {
			return nil, fmt.Errorf("%w: tools: %v", common.ErrInvalidConfig, err)
		}
	}
	if tools.Tesseract == "" {
		tools.Tesseract = DetectTesseract()
	}
	if tools.PDFToPPM == "" {
		tools.PDFToPPM = DetectPDFToPPM()
	}

	cfg := &Config{
		Categories: categories,
		Settings:   settings,
		Tools:      tools,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeCategories overlays user entries on the defaults. An entry whose
// name matches an existing category replaces it in place, keeping the
// original position; new names append in file order.
func mergeCategories(base []model.Category, entries []categoryFile) []model.Category {
	index := make(map[string]int, len(base))
	for i, c := range base {
		index[c.Name] = i
	}

	for _, e := range entries {
		folder := e.Folder
		if folder == "" {
			folder = e.Name
		}
		cat := model.Category{
			Name:        e.Name,
			Description: e.Description,
			Folder:      folder,
			Keywords:    e.Keywords,
		}
		if i, ok := index[e.Name]; ok {
			base[i] = cat
			continue
		}
		index[e.Name] = len(base)
		base = append(base, cat)
	}

	return base
}

// Validate rejects configurations the pipeline cannot safely run with.
// Failing here is the only fatal error class; everything downstream
// degrades per file instead.
func (c *Config) Validate() error {
	if len(c.Categories) == 0 {
		return fmt.Errorf("%w: no categories configured", common.ErrInvalidConfig)
	}

	seen := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.Name == "" {
			return fmt.Errorf("%w: category with empty name", common.ErrInvalidConfig)
		}
		if seen[cat.Name] {
			return fmt.Errorf("%w: duplicate category %q", common.ErrInvalidConfig, cat.Name)
		}
		seen[cat.Name] = true

		if cat.Name == c.Settings.FallbackCategory {
			return fmt.Errorf("%w: category %q collides with the fallback category",
				common.ErrInvalidConfig, cat.Name)
		}
		if len(cat.Keywords) == 0 {
			return fmt.Errorf("%w: category %q has no keywords", common.ErrInvalidConfig, cat.Name)
		}
		for _, kw := range cat.Keywords {
			if kw == "" {
				return fmt.Errorf("%w: category %q has an empty keyword", common.ErrInvalidConfig, cat.Name)
			}
		}
	}

	s := c.Settings
	if s.FallbackCategory == "" {
		return fmt.Errorf("%w: fallback category name is empty", common.ErrInvalidConfig)
	}
	if s.MinConfidence < 0 || s.MinConfidence > 1 {
		return fmt.Errorf("%w: min_confidence %v outside [0,1]", common.ErrInvalidConfig, s.MinConfidence)
	}
	if s.MaxTextLength <= 0 {
		return fmt.Errorf("%w: max_text_length must be positive", common.ErrInvalidConfig)
	}
	if s.BodyWeight <= 0 {
		return fmt.Errorf("%w: body_weight must be positive", common.ErrInvalidConfig)
	}
	if s.FilenameBonus < 0 {
		return fmt.Errorf("%w: filename_bonus must not be negative", common.ErrInvalidConfig)
	}
	if s.BodyWeight < s.FilenameBonus {
		return fmt.Errorf("%w: body_weight must be at least filename_bonus", common.ErrInvalidConfig)
	}
	if s.OCRTimeout <= 0 {
		return fmt.Errorf("%w: ocr_timeout must be positive", common.ErrInvalidConfig)
	}
	if s.MaxCollisionAttempts <= 0 {
		return fmt.Errorf("%w: max_collision_attempts must be positive", common.ErrInvalidConfig)
	}
	if s.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", common.ErrInvalidConfig)
	}

	return nil
}

// FindCategory returns the configured category with the given name.
func (c *Config) FindCategory(name string) (model.Category, bool) {
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat, true
		}
	}
	return model.Category{}, false
}

// FolderFor maps a category name to its destination folder name. The
// fallback category and unknown names map to the fallback folder.
func (c *Config) FolderFor(category string) string {
	if cat, ok := c.FindCategory(category); ok {
		return cat.Folder
	}
	return c.Settings.FallbackCategory
}
