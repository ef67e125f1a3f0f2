package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortsense/sortsense/internal/common"
	"github.com/sortsense/sortsense/internal/model"
)

func validConfig() *Config {
	return &Config{
		Categories: DefaultCategories(),
		Settings:   DefaultSettings(),
	}
}

func TestValidateDefaults(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		mutate  func(*Config)
		name    string
		wantMsg string
	}{
		{
			name:    "no categories",
			mutate:  func(c *Config) { c.Categories = nil },
			wantMsg: "no categories",
		},
		{
			name: "empty category name",
			mutate: func(c *Config) {
				c.Categories = append(c.Categories, model.Category{Folder: "x", Keywords: []string{"x"}})
			},
			wantMsg: "empty name",
		},
		{
			name: "duplicate category",
			mutate: func(c *Config) {
				c.Categories = append(c.Categories, c.Categories[0])
			},
			wantMsg: "duplicate",
		},
		{
			name: "category without keywords",
			mutate: func(c *Config) {
				c.Categories = append(c.Categories, model.Category{Name: "empty", Folder: "empty"})
			},
			wantMsg: "no keywords",
		},
		{
			name: "empty keyword",
			mutate: func(c *Config) {
				c.Categories[0].Keywords = append(c.Categories[0].Keywords, "")
			},
			wantMsg: "empty keyword",
		},
		{
			name: "category shadowing fallback",
			mutate: func(c *Config) {
				c.Categories = append(c.Categories, model.Category{
					Name: c.Settings.FallbackCategory, Folder: "f", Keywords: []string{"x"},
				})
			},
			wantMsg: "fallback",
		},
		{
			name:    "confidence above one",
			mutate:  func(c *Config) { c.Settings.MinConfidence = 1.5 },
			wantMsg: "min_confidence",
		},
		{
			name:    "negative filename bonus",
			mutate:  func(c *Config) { c.Settings.FilenameBonus = -1 },
			wantMsg: "filename_bonus",
		},
		{
			name:    "filename bonus above body weight",
			mutate:  func(c *Config) { c.Settings.FilenameBonus = c.Settings.BodyWeight + 1 },
			wantMsg: "body_weight",
		},
		{
			name:    "zero ocr timeout",
			mutate:  func(c *Config) { c.Settings.OCRTimeout = 0 },
			wantMsg: "ocr_timeout",
		},
		{
			name:    "zero workers",
			mutate:  func(c *Config) { c.Settings.Workers = 0 },
			wantMsg: "workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestMergeCategories(t *testing.T) {
	base := []model.Category{
		{Name: "one", Folder: "one", Keywords: []string{"a"}},
		{Name: "two", Folder: "two", Keywords: []string{"b"}},
	}

	merged := mergeCategories(base, []categoryFile{
		{Name: "two", Description: "replaced", Folder: "elsewhere", Keywords: []string{"b2"}},
		{Name: "three", Keywords: []string{"c"}},
	})

	require.Len(t, merged, 3)

	// Overrides keep the original position so the tie-break order is
	// stable across merges.
	assert.Equal(t, "one", merged[0].Name)
	assert.Equal(t, "two", merged[1].Name)
	assert.Equal(t, "elsewhere", merged[1].Folder)
	assert.Equal(t, []string{"b2"}, merged[1].Keywords)

	// New entries append, defaulting the folder to the name.
	assert.Equal(t, "three", merged[2].Name)
	assert.Equal(t, "three", merged[2].Folder)
}

func TestFolderFor(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, "documents", cfg.FolderFor("documents"))
	assert.Equal(t, cfg.Settings.FallbackCategory, cfg.FolderFor(cfg.Settings.FallbackCategory))
	assert.Equal(t, cfg.Settings.FallbackCategory, cfg.FolderFor("never-configured"))
}
