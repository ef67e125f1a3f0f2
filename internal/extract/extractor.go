// Package extract turns heterogeneous files into best-effort plain text.
//
// Each supported format maps to an ordered list of strategies, tried in
// fallback order; the first strategy that yields non-empty text wins.
// Extraction never returns an error to the caller: every failure
// degrades to an ExtractionResult with Success=false and empty text so
// the pipeline can fall back to the filename as a weak signal.
package extract

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/sortsense/sortsense/internal/common"
	"github.com/sortsense/sortsense/internal/config"
	"github.com/sortsense/sortsense/internal/model"
)

// strategy is one format-specific way of turning file bytes into text.
// run returns an error (or empty text) to hand off to the next strategy
// in the list.
type strategy struct {
	run    func(ctx context.Context, path string) (string, error)
	method model.ExtractionMethod
}

// Extractor dispatches files to extraction strategies by extension.
// It is stateless after construction and safe for concurrent use.
type Extractor struct {
	ocr      OCREngine
	renderer PageRenderer
	settings config.Settings
}

// New creates an Extractor using the tools resolved in cfg. A missing
// tesseract or pdftoppm binary disables the corresponding strategies
// rather than failing construction.
func New(cfg *config.Config) *Extractor {
	return &Extractor{
		ocr:      NewTesseractEngine(cfg.Tools.Tesseract),
		renderer: NewPopplerRenderer(cfg.Tools.PDFToPPM),
		settings: cfg.Settings,
	}
}

// NewWithEngines creates an Extractor with explicit OCR and rendering
// implementations. Used by tests and by callers embedding their own
// engines.
func NewWithEngines(settings config.Settings, ocr OCREngine, renderer PageRenderer) *Extractor {
	return &Extractor{
		ocr:      ocr,
		renderer: renderer,
		settings: settings,
	}
}

// Extract runs the strategy list for the file's extension and returns
// the first successful result. It never returns an error; unsupported
// extensions and exhausted strategy lists produce a failure result.
func (e *Extractor) Extract(ctx context.Context, path string) model.ExtractionResult {
	ext := strings.ToLower(filepath.Ext(path))

	strategies := e.strategiesFor(ext)
	if len(strategies) == 0 {
		return model.ExtractionResult{
			SourcePath: path,
			Method:     model.MethodNone,
			Success:    false,
			Err:        "unsupported extension",
		}
	}

	var lastErr string
	for _, s := range strategies {
		text, err := s.run(ctx, path)
		if err != nil {
			lastErr = err.Error()
			common.LogDebug("extraction strategy failed", common.Fields{
				"path":   path,
				"method": string(s.method),
				"error":  err.Error(),
			})
			continue
		}

		text = strings.TrimSpace(text)
		if text == "" {
			lastErr = "no text found"
			continue
		}

		text, truncated := clip(text, e.settings.MaxTextLength)
		return model.ExtractionResult{
			SourcePath: path,
			Text:       text,
			Method:     s.method,
			Success:    true,
			Truncated:  truncated,
		}
	}

	return model.ExtractionResult{
		SourcePath: path,
		Method:     model.MethodNone,
		Success:    false,
		Err:        lastErr,
	}
}

// strategiesFor returns the ordered fallback list for an extension.
func (e *Extractor) strategiesFor(ext string) []strategy {
	switch ext {
	case ".txt", ".md", ".log", ".json", ".xml":
		return []strategy{
			{method: model.MethodText, run: e.readPlainText},
		}
	case ".pdf":
		// Text layer first; scanned PDFs fall through to rendered OCR.
		return []strategy{
			{method: model.MethodPDF, run: e.readPDFTextLayer},
			{method: model.MethodOCR, run: e.ocrPDF},
		}
	case ".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp":
		return []strategy{
			{method: model.MethodOCR, run: e.ocrImage},
		}
	case ".docx", ".docm":
		return []strategy{
			{method: model.MethodDocx, run: e.readDocx},
		}
	case ".xlsx":
		return []strategy{
			{method: model.MethodSheet, run: e.readXlsx},
		}
	case ".csv":
		return []strategy{
			{method: model.MethodSheet, run: e.readCSV},
		}
	case ".xls":
		return []strategy{
			{method: model.MethodSheet, run: e.readLegacyXls},
		}
	default:
		return nil
	}
}

// clip bounds text to max runes, reporting whether anything was cut.
// Truncation matters downstream: a clipped buffer weakens score
// reliability, so it is recorded rather than silently dropped.
func clip(text string, max int) (string, bool) {
	if max <= 0 {
		return text, false
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text, false
	}
	return string(runes[:max]), true
}
