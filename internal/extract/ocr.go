package extract

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// OCREngine recognizes text in a rendered image. The interface is small
// so engines can be backed by a local binary or swapped out in tests.
type OCREngine interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
	Available() bool
}

// PageRenderer renders the first page of a PDF to an image file and
// returns its path.
type PageRenderer interface {
	RenderFirstPage(ctx context.Context, pdfPath, outDir string) (string, error)
	Available() bool
}

// TesseractEngine shells out to the tesseract binary.
type TesseractEngine struct {
	binary string
}

// NewTesseractEngine creates an engine for the given binary path. An
// empty path produces an unavailable engine.
func NewTesseractEngine(binary string) *TesseractEngine {
	return &TesseractEngine{binary: binary}
}

// Available reports whether a tesseract binary was resolved.
func (t *TesseractEngine) Available() bool {
	return t.binary != ""
}

// Recognize runs tesseract against the image, honoring ctx for the
// caller's timeout. A killed process surfaces as the context error.
func (t *TesseractEngine) Recognize(ctx context.Context, imagePath string) (string, error) {
	if t.binary == "" {
		return "", fmt.Errorf("tesseract not available")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, t.binary, imagePath, "stdout")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("ocr timed out: %w", ctxErr)
		}
		return "", fmt.Errorf("tesseract: %w: %s", err, stderr.String())
	}

	return stdout.String(), nil
}

// PopplerRenderer renders PDF pages with the pdftoppm binary.
type PopplerRenderer struct {
	binary string
}

// NewPopplerRenderer creates a renderer for the given binary path. An
// empty path produces an unavailable renderer.
func NewPopplerRenderer(binary string) *PopplerRenderer {
	return &PopplerRenderer{binary: binary}
}

// Available reports whether a pdftoppm binary was resolved.
func (p *PopplerRenderer) Available() bool {
	return p.binary != ""
}

// RenderFirstPage converts page one of the PDF to a PNG in outDir.
func (p *PopplerRenderer) RenderFirstPage(ctx context.Context, pdfPath, outDir string) (string, error) {
	if p.binary == "" {
		return "", fmt.Errorf("pdftoppm not available")
	}

	prefix := filepath.Join(outDir, "page")
	cmd := exec.CommandContext(ctx, p.binary, "-png", "-f", "1", "-l", "1", pdfPath, prefix)
	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("pdf render timed out: %w", ctxErr)
		}
		return "", fmt.Errorf("pdftoppm: %w", err)
	}

	// pdftoppm pads the page number differently depending on the
	// document's page count.
	for _, name := range []string{"page-1.png", "page-01.png", "page-001.png"} {
		candidate := filepath.Join(outDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("pdftoppm produced no output")
}
