package pages

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/Veraticus/phonecdp/internal/api"
	"github.com/Veraticus/phonecdp/internal/common"
	"github.com/Veraticus/phonecdp/internal/notify"
)

// SavedMsg reports a finished download. Downloads outlive the page that
// started them, so the shell reports these rather than the page.
type SavedMsg struct {
	Err   error
	Path  string
	Bytes int64
}

// saveTo streams path from the service into dir/name.
func saveTo(ctx context.Context, client *api.Client, path, dir, name string) SavedMsg {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return SavedMsg{Err: fmt.Errorf("failed to create %s: %w", dir, err)}
	}

	dst := filepath.Join(dir, name)
	f, err := os.Create(filepath.Clean(dst))
	if err != nil {
		return SavedMsg{Err: fmt.Errorf("failed to create %s: %w", dst, err)}
	}

	n, err := client.Download(ctx, path, f, nil)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		return SavedMsg{Err: err}
	}

	common.LogInfo("saved download", common.Fields{"path": dst, "bytes": n})
	return SavedMsg{Path: dst, Bytes: n}
}

// download returns a command that saves path into the download directory.
func (e Env) download(path, name string) tea.Cmd {
	ctx, client, dir := e.Ctx, e.Client, e.DownloadDir
	if ctx == nil {
		ctx = context.Background()
	}
	return func() tea.Msg {
		return saveTo(ctx, client, path, dir, name)
	}
}

// Report notifies the outcome of the download.
func (m SavedMsg) Report(n *notify.Notifier) {
	if m.Err != nil {
		n.Error(m.Err.Error())
		return
	}
	n.Success(fmt.Sprintf("Saved %s (%s)", m.Path, humanize.Bytes(uint64(max(m.Bytes, 0)))))
}

// exportCSV saves the results export.
func (e Env) exportCSV() tea.Cmd {
	return e.download(api.ExportPath, fmt.Sprintf("verification_results_%s.csv", e.now().Format("20060102_150405")))
}
