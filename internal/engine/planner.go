package engine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sortsense/sortsense/internal/common"
)

// planDestination picks a destination path for filename under destDir
// that does not collide with an existing file. Overwriting is never
// silently permitted: when the plain name is taken, a numeric suffix is
// appended ("report.pdf" → "report_1.pdf"), bounded by maxAttempts so a
// pathological directory cannot loop the planner forever.
func planDestination(destDir, filename string, maxAttempts int, exists func(string) bool) (string, error) {
	candidate := filepath.Join(destDir, filename)
	if !exists(candidate) {
		return candidate, nil
	}

	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)

	for i := 1; i <= maxAttempts; i++ {
		candidate = filepath.Join(destDir, fmt.Sprintf("%s_%d%s", stem, i, ext))
		if !exists(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%w: %s in %s after %d attempts",
		common.ErrCollisionExhausted, filename, destDir, maxAttempts)
}
