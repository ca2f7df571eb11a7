// Package archive downloads monthly PGN game archives over HTTP, with
// resume support for interrupted transfers.
package archive

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// DefaultResponseHeaderTimeout is the default timeout for receiving
// response headers.
const DefaultResponseHeaderTimeout = 30 * time.Second

// MonthURL returns the published-archive URL for one player and month,
// in the chess.com layout.
func MonthURL(username string, year int, month time.Month) string {
	return fmt.Sprintf("https://api.chess.com/pub/player/%s/games/%d/%02d/pgn",
		username, year, int(month))
}

// Progress reports the state of one transfer.
type Progress struct {
	BytesDownloaded int64
	BytesTotal      int64
}

// ProgressFunc is called periodically with progress updates.
type ProgressFunc func(Progress)

// Downloader handles downloading archives with resume support.
type Downloader struct {
	client *http.Client
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) DownloaderOption {
	return func(d *Downloader) {
		d.client = client
	}
}

// NewDownloader creates a new Downloader with sensible defaults.
func NewDownloader(opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		client: &http.Client{
			Timeout: 0, // No overall timeout - we handle it per-request.
			Transport: &http.Transport{
				ResponseHeaderTimeout: DefaultResponseHeaderTimeout,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Download starts a transfer of the URL, resuming from the size of any
// partial file at destPath. Returns the body stream and total size.
func (d *Downloader) Download(ctx context.Context, url string, destPath string) (io.ReadCloser, int64, error) {
	// Check if partial file exists.
	var existingSize int64
	if info, err := os.Stat(destPath); err == nil {
		existingSize = info.Size()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}

	if existingSize > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", existingSize))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("downloading: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, 0, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	// Get total size.
	var totalSize int64
	if resp.StatusCode == http.StatusPartialContent {
		// Parse Content-Range header, format: bytes 0-999/1234.
		contentRange := resp.Header.Get("Content-Range")
		if contentRange != "" {
			var start, end int64
			_, err := fmt.Sscanf(contentRange, "bytes %d-%d/%d", &start, &end, &totalSize)
			if err != nil {
				totalSize = existingSize + resp.ContentLength
			}
		}
	} else {
		totalSize = resp.ContentLength
	}

	return resp.Body, totalSize, nil
}

// DownloadToFile downloads a URL directly to a file, appending to any
// partial content left by a previous attempt.
func (d *Downloader) DownloadToFile(ctx context.Context, url string, destPath string, progress ProgressFunc) error {
	body, totalSize, err := d.Download(ctx, url, destPath)
	if err != nil {
		return err
	}
	defer body.Close()

	// Check existing size for append mode.
	var existingSize int64
	var flags int
	if info, err := os.Stat(destPath); err == nil {
		existingSize = info.Size()
		flags = os.O_WRONLY | os.O_APPEND
	} else {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	file, err := os.OpenFile(destPath, flags, 0644)
	if err != nil {
		return fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	buf := make([]byte, 32*1024)
	downloaded := existingSize

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := body.Read(buf)
		if n > 0 {
			if _, writeErr := file.Write(buf[:n]); writeErr != nil {
				return fmt.Errorf("writing file: %w", writeErr)
			}
			downloaded += int64(n)

			if progress != nil {
				progress(Progress{
					BytesDownloaded: downloaded,
					BytesTotal:      totalSize,
				})
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}
	}

	return nil
}

// FetchMonth downloads one player's monthly archive into destPath.
func (d *Downloader) FetchMonth(ctx context.Context, username string, year int, month time.Month, destPath string, progress ProgressFunc) error {
	return d.DownloadToFile(ctx, MonthURL(username, year, month), destPath, progress)
}

// FormatBytes formats bytes as human-readable string.
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
