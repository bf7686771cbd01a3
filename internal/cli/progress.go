package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// NewProgressBar returns a bar for total steps written to w. A negative total
// gives a spinner.
func NewProgressBar(w io.Writer, total int64, description string, bytes bool) *progressbar.ProgressBar {
	colored := IsTerminal(w)
	theme := progressbar.Theme{
		Saucer:        "=",
		SaucerHead:    ">",
		SaucerPadding: " ",
		BarStart:      "[",
		BarEnd:        "]",
	}
	if colored {
		description = "[cyan][bold]" + description + "[reset]"
		theme.Saucer = "[green]=[reset]"
		theme.SaucerHead = "[green]>[reset]"
	}

	opts := []progressbar.Option{
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(colored),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(theme),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(w); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	}
	if bytes {
		opts = append(opts, progressbar.OptionShowBytes(true))
	}
	return progressbar.NewOptions64(total, opts...)
}

// DownloadProgress returns a progress callback for api.Client.Download that
// draws a byte bar on w.
func DownloadProgress(w io.Writer, description string) func(total int64) io.Writer {
	return func(total int64) io.Writer {
		return NewProgressBar(w, total, description, true)
	}
}
