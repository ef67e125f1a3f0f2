package extract

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// readCSV concatenates cell text from the first MaxSheetRows rows.
func (e *Extractor) readCSV(_ context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("csv open: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // Ragged rows are fine for keyword scanning

	var b strings.Builder
	for row := 0; row < e.settings.MaxSheetRows; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("csv read: %w", err)
		}
		for _, cell := range record {
			if cell == "" {
				continue
			}
			b.WriteString(cell)
			b.WriteString(" ")
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

// readLegacyXls always fails: the binary BIFF format has no parser
// here, so these files degrade to filename-only categorization the same
// way a missing optional parser would.
func (e *Extractor) readLegacyXls(_ context.Context, _ string) (string, error) {
	return "", fmt.Errorf("legacy xls format not supported")
}
