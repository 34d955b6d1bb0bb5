// Package download fetches dataset archives over HTTP(S).
package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Options configures a single archive download.
type Options struct {
	URL string
	// SaveDir keeps the archive as SaveDir/<name from URL>. Empty downloads
	// into a temporary .zip file owned by the caller.
	SaveDir string
	// TempDir is where temporary archives are created; empty uses os.TempDir.
	TempDir string
	Client  *http.Client
	// Progress receives progress output; nil disables it.
	Progress io.Writer
	Logger   *slog.Logger
}

// Result describes a downloaded archive.
type Result struct {
	Path  string
	Bytes int64
	// Temporary is set when the archive lives in a temp file the caller
	// should remove after use.
	Temporary bool
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL    string
	Status string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("download %s failed: %s", e.URL, e.Status)
}

// Fetch downloads opts.URL. There is no retry and no checksum verification.
func Fetch(ctx context.Context, opts Options) (Result, error) {
	if strings.TrimSpace(opts.URL) == "" {
		return Result{}, errors.New("download url is required")
	}
	if opts.Client == nil {
		opts.Client = &http.Client{Timeout: 0}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.SaveDir != "" {
		return fetchToDir(ctx, opts)
	}

	return fetchToTemp(ctx, opts)
}

// ArchiveName returns the last path element of rawURL, ignoring any query.
func ArchiveName(rawURL string) string {
	if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
		rawURL = rawURL[:i]
	}

	return path.Base(rawURL)
}

func fetchToDir(ctx context.Context, opts Options) (Result, error) {
	if err := os.MkdirAll(opts.SaveDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("create save dir: %w", err)
	}

	name := ArchiveName(opts.URL)
	if name == "" || name == "." || name == "/" {
		return Result{}, fmt.Errorf("cannot derive archive name from %q", opts.URL)
	}

	outPath := filepath.Join(opts.SaveDir, name)
	tmp := outPath + ".tmp"

	fh, err := os.Create(tmp)
	if err != nil {
		return Result{}, fmt.Errorf("create temp file: %w", err)
	}

	written, err := fetchInto(ctx, opts, fh)
	if closeErr := fh.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close temp file: %w", closeErr)
	}
	if err != nil {
		_ = os.Remove(tmp)
		return Result{}, err
	}

	if err := os.Rename(tmp, outPath); err != nil {
		_ = os.Remove(tmp)
		return Result{}, fmt.Errorf("move temp file into place: %w", err)
	}

	return Result{Path: outPath, Bytes: written}, nil
}

func fetchToTemp(ctx context.Context, opts Options) (Result, error) {
	fh, err := os.CreateTemp(opts.TempDir, "voicedata-*.zip")
	if err != nil {
		return Result{}, fmt.Errorf("create temp archive: %w", err)
	}
	tmpPath := fh.Name()

	written, err := fetchInto(ctx, opts, fh)
	if closeErr := fh.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("close temp archive: %w", closeErr)
	}
	if err != nil {
		_ = os.Remove(tmpPath)
		return Result{}, err
	}

	return Result{Path: tmpPath, Bytes: written, Temporary: true}, nil
}

func fetchInto(ctx context.Context, opts Options, dst io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opts.URL, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}

	start := time.Now()
	opts.Logger.Info("download started", slog.String("url", opts.URL))

	// #nosec G107 -- URLs come from the static catalog.
	resp, err := opts.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("download request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &StatusError{URL: opts.URL, Status: resp.Status, Code: resp.StatusCode}
	}

	var src io.Reader = resp.Body
	var pw *ProgressWriter
	if opts.Progress != nil {
		pw = NewProgressWriter(opts.Progress, resp.ContentLength)
		src = io.TeeReader(resp.Body, pw)
	}

	written, err := io.Copy(dst, src)
	if pw != nil {
		pw.Finish()
	}
	if err != nil {
		return written, fmt.Errorf("download read failed: %w", err)
	}

	opts.Logger.Info("download complete",
		slog.String("url", opts.URL),
		slog.Int64("bytes", written),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return written, nil
}
