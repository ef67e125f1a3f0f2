package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// readDocx extracts paragraph and table text from an OOXML word
// document by walking word/document.xml inside the zip container.
func (e *Extractor) readDocx(_ context.Context, path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("docx open: %w", err)
	}
	defer func() { _ = r.Close() }()

	doc := findZipEntry(&r.Reader, "word/document.xml")
	if doc == nil {
		return "", fmt.Errorf("docx: no word/document.xml")
	}

	rc, err := doc.Open()
	if err != nil {
		return "", fmt.Errorf("docx: %w", err)
	}
	defer func() { _ = rc.Close() }()

	// Text runs live in w:t elements; paragraph boundaries (w:p) become
	// newlines so keyword matching sees word breaks.
	var b strings.Builder
	decoder := xml.NewDecoder(rc)
	inText := false
	budget := e.settings.MaxTextLength + 1

	for b.Len() < budget {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("docx parse: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return b.String(), nil
}

// readXlsx extracts cell text from an OOXML workbook. Cell strings live
// in xl/sharedStrings.xml; reading that one entry covers text content
// without loading every worksheet, and the read is bounded by the
// configured text budget.
func (e *Extractor) readXlsx(_ context.Context, path string) (string, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("xlsx open: %w", err)
	}
	defer func() { _ = r.Close() }()

	shared := findZipEntry(&r.Reader, "xl/sharedStrings.xml")
	if shared == nil {
		return "", fmt.Errorf("xlsx: no shared strings")
	}

	rc, err := shared.Open()
	if err != nil {
		return "", fmt.Errorf("xlsx: %w", err)
	}
	defer func() { _ = rc.Close() }()

	var b strings.Builder
	decoder := xml.NewDecoder(rc)
	inText := false
	budget := e.settings.MaxTextLength + 1

	for b.Len() < budget {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("xlsx parse: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
				b.WriteString(" ")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}

	return b.String(), nil
}

func findZipEntry(r *zip.Reader, name string) *zip.File {
	for _, f := range r.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}
