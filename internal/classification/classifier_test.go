package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sortsense/sortsense/internal/config"
	"github.com/sortsense/sortsense/internal/model"
)

func testConfig(t *testing.T, categories []model.Category) *config.Config {
	t.Helper()
	cfg := &config.Config{
		Categories: categories,
		Settings:   config.DefaultSettings(),
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

func financeSchoolConfig(t *testing.T) *config.Config {
	t.Helper()
	return testConfig(t, []model.Category{
		{
			Name:        "finance",
			Description: "Financial papers",
			Folder:      "finance",
			Keywords:    []string{"invoice", "tax", "statement", "payment"},
		},
		{
			Name:        "school",
			Description: "Academic papers",
			Folder:      "school",
			Keywords:    []string{"transcript", "degree"},
		},
	})
}

func extraction(path, text string) model.ExtractionResult {
	success := text != ""
	return model.ExtractionResult{
		SourcePath: path,
		Text:       text,
		Method:     model.MethodText,
		Success:    success,
	}
}

func TestCategorizeFinanceScenario(t *testing.T) {
	cfg := financeSchoolConfig(t)
	classifier, err := New(cfg)
	require.NoError(t, err)

	result := classifier.Categorize(
		extraction("/in/doc.txt", "Invoice for payment due, please review this tax statement"),
		"doc.txt")

	assert.Equal(t, "finance", result.Category)
	assert.Positive(t, result.Scores["finance"])
	assert.Zero(t, result.Scores["school"])
	assert.Greater(t, result.Confidence, cfg.Settings.MinConfidence)
	assert.NotEmpty(t, result.Matches)
}

func TestCategorizeWordBoundaries(t *testing.T) {
	cfg := financeSchoolConfig(t)
	classifier, err := New(cfg)
	require.NoError(t, err)

	tests := []struct {
		name         string
		text         string
		wantFinance  float64
		wantCategory string
	}{
		{
			name:         "tax inside syntax does not match",
			text:         "notes on parser syntax and grammar",
			wantFinance:  0,
			wantCategory: config.FallbackCategory,
		},
		{
			name:         "standalone tax matches",
			text:         "your tax documents are attached",
			wantFinance:  1,
			wantCategory: config.FallbackCategory, // single hit stays under threshold
		},
		{
			name:         "repeated keywords count each occurrence",
			text:         "invoice invoice invoice payment",
			wantFinance:  4,
			wantCategory: "finance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := classifier.Categorize(extraction("/in/f.txt", tt.text), "f.txt")
			assert.InDelta(t, tt.wantFinance, result.Scores["finance"], 1e-9)
			assert.Equal(t, tt.wantCategory, result.Category)
		})
	}
}

func TestCategorizeDeterminism(t *testing.T) {
	classifier, err := New(financeSchoolConfig(t))
	require.NoError(t, err)

	input := extraction("/in/doc.txt", "tax statement and invoice payment records, tax again")

	first := classifier.Categorize(input, "doc.txt")
	for i := 0; i < 10; i++ {
		again := classifier.Categorize(input, "doc.txt")
		assert.Equal(t, first.Category, again.Category)
		assert.Equal(t, first.Confidence, again.Confidence)
		assert.Equal(t, first.Scores, again.Scores)
		assert.Equal(t, first.Matches, again.Matches)
	}
}

func TestCategorizeTieBreakUsesConfiguredOrder(t *testing.T) {
	categories := []model.Category{
		{Name: "alpha", Folder: "alpha", Description: "a", Keywords: []string{"shared", "alphaword"}},
		{Name: "beta", Folder: "beta", Description: "b", Keywords: []string{"shared", "betaword"}},
	}

	cfg := testConfig(t, categories)
	cfg.Settings.MinConfidence = 0
	classifier, err := New(cfg)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		result := classifier.Categorize(extraction("/in/t.txt", "shared shared shared shared"), "t.txt")
		assert.Equal(t, "alpha", result.Category, "ties must resolve to the earlier category")
	}

	// Reversed configuration order flips the winner.
	reversed := testConfig(t, []model.Category{categories[1], categories[0]})
	reversed.Settings.MinConfidence = 0
	classifier, err = New(reversed)
	require.NoError(t, err)

	result := classifier.Categorize(extraction("/in/t.txt", "shared shared shared shared"), "t.txt")
	assert.Equal(t, "beta", result.Category)
}

func TestCategorizeThresholdEnforcement(t *testing.T) {
	cfg := financeSchoolConfig(t)
	cfg.Settings.MinConfidence = 0.9
	classifier, err := New(cfg)
	require.NoError(t, err)

	// Two distinct hits: the highest raw score of any category, but
	// still below the raised threshold once normalized.
	result := classifier.Categorize(extraction("/in/weak.txt", "one invoice and one payment"), "weak.txt")

	assert.Equal(t, config.FallbackCategory, result.Category)
	// The near-miss stays visible for transparency.
	assert.InDelta(t, 2.0, result.Scores["finance"], 1e-9)
	assert.Positive(t, result.Confidence)
}

func TestCategorizeFallbackOnNoMatches(t *testing.T) {
	classifier, err := New(financeSchoolConfig(t))
	require.NoError(t, err)

	result := classifier.Categorize(extraction("/in/none.txt", "completely unrelated words"), "none.txt")

	assert.Equal(t, config.FallbackCategory, result.Category)
	assert.Zero(t, result.Confidence)
	assert.Empty(t, result.Matches)
	for name, score := range result.Scores {
		assert.Zero(t, score, "category %s", name)
	}
}

func TestCategorizeFilenameBonusOnly(t *testing.T) {
	cfg := testConfig(t, []model.Category{
		{Name: "photos", Folder: "photos", Description: "Pictures", Keywords: []string{"photo", "selfie"}},
	})
	// Let the weak filename-only signal through.
	cfg.Settings.MinConfidence = 0.1
	classifier, err := New(cfg)
	require.NoError(t, err)

	failed := model.ExtractionResult{
		SourcePath: "/in/photo123.jpg",
		Method:     model.MethodNone,
		Success:    false,
	}
	result := classifier.Categorize(failed, "photo123.jpg")

	assert.Equal(t, "photos", result.Category)
	assert.InDelta(t, cfg.Settings.FilenameBonus, result.Scores["photos"], 1e-9)

	// With the default threshold the same signal falls back.
	cfg.Settings.MinConfidence = config.DefaultSettings().MinConfidence
	classifier, err = New(cfg)
	require.NoError(t, err)
	result = classifier.Categorize(failed, "photo123.jpg")
	assert.Equal(t, config.FallbackCategory, result.Category)
}

func TestCategorizeBodyDominatesFilename(t *testing.T) {
	cfg := financeSchoolConfig(t)
	cfg.Settings.MinConfidence = 0
	classifier, err := New(cfg)
	require.NoError(t, err)

	// Filename points at school, body points at finance; body wins.
	result := classifier.Categorize(
		extraction("/in/transcript.pdf", "invoice payment tax statement"),
		"transcript.pdf")

	assert.Equal(t, "finance", result.Category)
}

func TestNormalizeStem(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo123", "photo 123"},
		{"tax_return-2022", "tax return 2022"},
		{"IMG_0042", "img 0042"},
		{"statement.final", "statement final"},
		{"plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeStem(tt.in))
		})
	}
}

func TestNewRejectsNothing(t *testing.T) {
	// QuoteMeta guards keyword compilation; even regex metacharacters
	// in keywords must compile.
	cfg := testConfig(t, []model.Category{
		{Name: "odd", Folder: "odd", Description: "odd", Keywords: []string{"c++ (notes)", "w-2"}},
	})
	classifier, err := New(cfg)
	require.NoError(t, err)

	result := classifier.Categorize(extraction("/in/w.txt", "attached is your w-2 form"), "w.txt")
	assert.InDelta(t, 1.0, result.Scores["odd"], 1e-9)
}
