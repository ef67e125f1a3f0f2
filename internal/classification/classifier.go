// Package classification scores extracted text against the configured
// categories and produces a confidence-ranked decision.
package classification

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sortsense/sortsense/internal/common"
	"github.com/sortsense/sortsense/internal/config"
	"github.com/sortsense/sortsense/internal/model"
)

// compiledKeyword is one (category, keyword) pair with its word-boundary
// matcher. The flat ordered list keeps scoring a single pass over a
// pre-lowercased buffer with no per-category dispatch.
type compiledKeyword struct {
	re       *regexp.Regexp
	keyword  string
	category int // Index into the configured category order
}

// Classifier assigns categories by weighted keyword counting. It is
// immutable after construction and safe for concurrent use; identical
// inputs always produce identical results.
type Classifier struct {
	categories []model.Category
	keywords   []compiledKeyword
	settings   config.Settings
}

// New compiles the category keywords into word-boundary matchers.
// Keyword compilation failures are configuration errors and abort the
// run before any file is processed.
func New(cfg *config.Config) (*Classifier, error) {
	var keywords []compiledKeyword
	for i, cat := range cfg.Categories {
		for _, kw := range cat.Keywords {
			// Word boundaries keep "tax" from matching inside "syntax".
			re, err := regexp.Compile(`\b` + regexp.QuoteMeta(strings.ToLower(kw)) + `\b`)
			if err != nil {
				return nil, fmt.Errorf("%w: keyword %q in category %q: %v",
					common.ErrInvalidConfig, kw, cat.Name, err)
			}
			keywords = append(keywords, compiledKeyword{
				re:       re,
				keyword:  kw,
				category: i,
			})
		}
	}

	return &Classifier{
		categories: cfg.Categories,
		keywords:   keywords,
		settings:   cfg.Settings,
	}, nil
}

// Categorize scores one extraction result against every category.
// Body-text occurrences carry the configured body weight; filename
// matches add a smaller fixed bonus per keyword, since filenames are a
// strong but less exhaustive signal. When extraction failed the
// filename is the only signal.
func (c *Classifier) Categorize(extraction model.ExtractionResult, filename string) model.CategorizationResult {
	body := strings.ToLower(extraction.Text)
	stem := normalizeStem(strings.TrimSuffix(filename, filepath.Ext(filename)))

	raw := make([]float64, len(c.categories))
	matches := make([][]model.KeywordMatch, len(c.categories))

	for _, kw := range c.keywords {
		count := 0
		if body != "" {
			count = len(kw.re.FindAllStringIndex(body, -1))
		}

		score := float64(count) * c.settings.BodyWeight
		if stem != "" && kw.re.MatchString(stem) {
			score += c.settings.FilenameBonus
			count++
		}

		if score > 0 {
			raw[kw.category] += score
			matches[kw.category] = append(matches[kw.category], model.KeywordMatch{
				Keyword: kw.keyword,
				Count:   count,
			})
		}
	}

	scores := make(map[string]float64, len(c.categories))
	best := -1
	var bestScore float64
	for i, cat := range c.categories {
		scores[cat.Name] = raw[i]
		// Strict comparison resolves exact ties to the category that
		// appears first in the configured ordering.
		if raw[i] > bestScore {
			best = i
			bestScore = raw[i]
		}
	}

	result := model.CategorizationResult{
		SourcePath: extraction.SourcePath,
		Category:   c.settings.FallbackCategory,
		Scores:     scores,
	}

	if best < 0 {
		return result
	}

	// Normalize against the stronger of the best raw score and the
	// saturation point, so a lone weak keyword hit cannot claim full
	// confidence.
	norm := bestScore
	if c.settings.SaturationScore > norm {
		norm = c.settings.SaturationScore
	}
	confidence := bestScore / norm

	result.Confidence = confidence
	if confidence < c.settings.MinConfidence {
		// Near miss: the fallback category wins, but the score map
		// above still reports what almost matched.
		return result
	}

	result.Category = c.categories[best].Name
	result.Matches = matches[best]
	return result
}

// normalizeStem lowercases a filename stem and opens up word boundaries
// so keyword matching works on names like "photo123" or "tax_return-22":
// separators become spaces and letter/digit transitions are split.
func normalizeStem(stem string) string {
	var b strings.Builder
	b.Grow(len(stem) + 8)

	var prev rune
	for _, r := range strings.ToLower(stem) {
		switch {
		case r == '_' || r == '-' || r == '.' || r == ' ':
			b.WriteRune(' ')
			prev = ' '
			continue
		case isLetter(prev) && isDigit(r), isDigit(prev) && isLetter(r):
			b.WriteRune(' ')
		}
		b.WriteRune(r)
		prev = r
	}

	return b.String()
}

func isLetter(r rune) bool { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
