package config

import (
	"os"
	"os/exec"
	"runtime"
)

// DetectTesseract resolves the tesseract binary, preferring an explicit
// TESSERACT_PATH, then well-known install locations, then $PATH.
// Returns "" when not found; OCR extraction degrades in that case.
func DetectTesseract() string {
	if p := os.Getenv("TESSERACT_PATH"); p != "" && isFile(p) {
		return p
	}

	var candidates []string
	switch runtime.GOOS {
	case "darwin":
		candidates = []string{
			"/opt/homebrew/bin/tesseract",
			"/usr/local/bin/tesseract",
		}
	case "windows":
		candidates = []string{
			`C:\Program Files\Tesseract-OCR\tesseract.exe`,
			`C:\Program Files (x86)\Tesseract-OCR\tesseract.exe`,
		}
	default:
		candidates = []string{
			"/usr/bin/tesseract",
			"/usr/local/bin/tesseract",
		}
	}

	for _, p := range candidates {
		if isFile(p) {
			return p
		}
	}

	if p, err := exec.LookPath("tesseract"); err == nil {
		return p
	}
	return ""
}

// DetectPDFToPPM resolves the poppler pdftoppm binary used to render
// scanned PDF pages for OCR.
func DetectPDFToPPM() string {
	if p := os.Getenv("PDFTOPPM_PATH"); p != "" && isFile(p) {
		return p
	}
	if p, err := exec.LookPath("pdftoppm"); err == nil {
		return p
	}
	return ""
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
