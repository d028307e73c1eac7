// Package download retrieves paper PDFs into the content folder.
// Transport failures are local-recovery: they are logged and surfaced as
// an absent path, never as an error to the caller.
package download

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

// warmupURL is a small reference PDF used to pre-establish the HTTP
// connection at construction time. Without the warm-up, the first large
// download tends to stall on connection timeouts. Declared as a var so
// tests can substitute an httptest server.
var warmupURL = "http://arxiv.org/pdf/2502.10309v1"

const defaultTimeout = 60 * time.Second

// Downloader streams paper PDFs over a single reused HTTP client.
type Downloader struct {
	client *http.Client
	cfg    types.DownloadConfig
	logger *slog.Logger
}

// NewDownloader creates a downloader writing into cfg.DataDir. It issues
// one warm-up request against a fixed small PDF; a warm-up failure is
// logged and never fatal.
func NewDownloader(client *http.Client, cfg types.DownloadConfig, logger *slog.Logger) *Downloader {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	d := &Downloader{client: client, cfg: cfg, logger: logger}
	d.warmUp()
	return d
}

func (d *Downloader) warmUp() {
	req, err := http.NewRequest(http.MethodHead, warmupURL, nil)
	if err != nil {
		d.logger.Error("building warm-up request", "url", warmupURL, "err", err)
		return
	}
	req.Header.Set("User-Agent", d.cfg.UserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Info("connection warm-up failed", "url", warmupURL, "err", err)
		return
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}

// Download streams the paper's PDF to <DataDir>/<id>.pdf and returns the
// path. With write=false the request is performed and drained but nothing
// is persisted (dry validation); the would-be path is still returned.
// Any transport failure returns an empty path after logging.
func (d *Downloader) Download(paper *types.Paper, write bool) string {
	pdfPath := filepath.Join(d.cfg.DataDir, paper.ID+".pdf")

	req, err := http.NewRequest(http.MethodGet, paper.PDFURL, nil)
	if err != nil {
		d.logger.Error("failed to download PDF", "id", paper.ID, "url", paper.PDFURL, "err", err)
		return ""
	}
	req.Header.Set("User-Agent", d.cfg.UserAgent)
	req.Header.Set("Accept", "application/pdf")

	resp, err := d.client.Do(req)
	if err != nil {
		d.logger.Error("failed to download PDF", "id", paper.ID, "url", paper.PDFURL, "err", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		d.logger.Error("failed to download PDF", "id", paper.ID, "url", paper.PDFURL,
			"status", resp.StatusCode)
		return ""
	}

	if !write {
		if _, err := io.Copy(io.Discard, resp.Body); err != nil {
			d.logger.Error("failed to download PDF", "id", paper.ID, "url", paper.PDFURL, "err", err)
			return ""
		}
		return pdfPath
	}

	if err := d.writeFile(pdfPath, resp.Body); err != nil {
		d.logger.Error("failed to download PDF", "id", paper.ID, "url", paper.PDFURL, "err", err)
		return ""
	}

	d.logger.Info("PDF downloaded", "path", pdfPath)
	return pdfPath
}

// writeFile streams body to destPath through a temporary file, renaming on
// success so a failed download never leaves a truncated PDF behind.
func (d *Downloader) writeFile(destPath string, body io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("creating content folder: %w", err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".download-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
