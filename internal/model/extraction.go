package model

// ExtractionMethod identifies which strategy produced the extracted text.
type ExtractionMethod string

// Extraction method constants.
const (
	MethodText     ExtractionMethod = "text"
	MethodPDF      ExtractionMethod = "pdf"
	MethodOCR      ExtractionMethod = "ocr"
	MethodDocx     ExtractionMethod = "docx"
	MethodSheet    ExtractionMethod = "sheet"
	MethodFilename ExtractionMethod = "filename"
	MethodNone     ExtractionMethod = "none"
)

// ExtractionResult is the outcome of running extraction strategies
// against a single file. It is created once and never mutated.
type ExtractionResult struct {
	SourcePath string
	Text       string
	Method     ExtractionMethod
	Success    bool
	Truncated  bool
	Err        string // Diagnostic detail when Success is false
}
