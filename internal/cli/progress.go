package cli

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// NewProgressBar builds the batch progress bar used while analyzing
// files. Pass nil to write to stderr.
func NewProgressBar(total int, description string, w io.Writer) *progressbar.ProgressBar {
	opts := []progressbar.Option{
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]" + description + "[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "▕",
			BarEnd:        "▏",
		}),
	}
	if w != nil {
		opts = append(opts, progressbar.OptionSetWriter(w))
	}
	return progressbar.NewOptions(total, opts...)
}
