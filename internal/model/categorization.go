package model

// KeywordMatch records one keyword that contributed to a category's score.
type KeywordMatch struct {
	Keyword string
	Count   int
}

// CategorizationResult is the ranked decision for a single file,
// derived from exactly one ExtractionResult.
type CategorizationResult struct {
	SourcePath string
	Category   string
	Confidence float64 // Normalized to [0,1]
	Matches    []KeywordMatch
	Scores     map[string]float64 // Raw score per category, for reporting
}
