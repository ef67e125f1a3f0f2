package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfTextPages bounds how many pages of the text layer are read. Two
// pages are plenty for categorization and keep huge documents cheap.
const pdfTextPages = 2

// readPDFTextLayer pulls text straight from the PDF's text layer.
// Returning an error (or too little text) hands the file to the OCR
// fallback strategy, the usual case for scanned documents.
func (e *Extractor) readPDFTextLayer(ctx context.Context, path string) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	// The pdf library panics on some malformed files; degrade instead.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("pdf open: %w", err)
	}
	defer func() { _ = f.Close() }()

	pages := reader.NumPage()
	if pages > pdfTextPages {
		pages = pdfTextPages
	}

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		for _, item := range content.Text {
			b.WriteString(item.S)
			b.WriteString(" ")
		}
	}

	text = strings.TrimSpace(b.String())
	if len(text) < e.settings.PDFMinTextLength {
		// Likely an image-only PDF; report it so OCR takes over.
		return "", fmt.Errorf("text layer too short (%d chars)", len(text))
	}
	return text, nil
}

// ocrPDF renders the first page to an image and runs OCR on it, the
// fallback for scanned PDFs with no usable text layer.
func (e *Extractor) ocrPDF(ctx context.Context, path string) (string, error) {
	if !e.renderer.Available() {
		return "", fmt.Errorf("pdf renderer unavailable")
	}
	if !e.ocr.Available() {
		return "", fmt.Errorf("ocr engine unavailable")
	}

	ctx, cancel := context.WithTimeout(ctx, e.settings.OCRTimeout)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "sortsense-ocr-*")
	if err != nil {
		return "", fmt.Errorf("temp dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	imagePath, err := e.renderer.RenderFirstPage(ctx, path, tmpDir)
	if err != nil {
		return "", fmt.Errorf("render pdf page: %w", err)
	}

	return e.ocr.Recognize(ctx, imagePath)
}

// ocrImage runs OCR directly on an image file, bounded by the
// configured timeout.
func (e *Extractor) ocrImage(ctx context.Context, path string) (string, error) {
	if !e.ocr.Available() {
		return "", fmt.Errorf("ocr engine unavailable")
	}

	ctx, cancel := context.WithTimeout(ctx, e.settings.OCRTimeout)
	defer cancel()

	return e.ocr.Recognize(ctx, path)
}
