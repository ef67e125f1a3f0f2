package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// maxPlainTextBytes bounds how much of a text file is read. Extracted
// text is clipped to the configured length anyway; reading whole
// multi-gigabyte logs would be wasted work.
const maxPlainTextBytes = 1 << 20

// readPlainText reads a text file, retrying with a permissive decode
// when the bytes are not valid UTF-8.
func (e *Extractor) readPlainText(_ context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, maxPlainTextBytes))
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	// Permissive retry: drop the undecodable bytes instead of giving up.
	return strings.ToValidUTF8(string(data), " "), nil
}
