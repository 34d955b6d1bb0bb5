package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/example/go-voicedata/internal/audio"
	"github.com/example/go-voicedata/internal/catalog"
	"github.com/example/go-voicedata/internal/config"
	"github.com/example/go-voicedata/internal/dataset"
	"github.com/example/go-voicedata/internal/download"
)

// Hooks replaced in tests.
var (
	runDownload = download.Fetch
	runConvert  = convertArchive
)

// prepareVoice downloads and converts a single voice into the output dir.
func prepareVoice(ctx context.Context, cfg config.Config, out io.Writer, name string) error {
	url, ok := catalog.URL(name)
	if !ok {
		_, _ = fmt.Fprintf(out, "Voice %s not available\n", name)
		return exitCode(1)
	}

	return fetchAndConvert(ctx, cfg, out, name, url, cfg.Paths.OutputDir)
}

// prepareLanguage downloads and converts every voice of a language or
// locale, each into its own subdirectory of the output dir.
func prepareLanguage(ctx context.Context, cfg config.Config, out io.Writer, selector string) error {
	names := catalog.VoiceNames(catalog.ParseSelector(selector))
	if len(names) == 0 {
		_, _ = fmt.Fprintf(out, "Language %s not available\n", selector)
		return exitCode(1)
	}

	for _, name := range names {
		url, _ := catalog.URL(name)
		if err := fetchAndConvert(ctx, cfg, out, name, url, filepath.Join(cfg.Paths.OutputDir, name)); err != nil {
			return err
		}
	}

	return nil
}

func fetchAndConvert(ctx context.Context, cfg config.Config, out io.Writer, name, url, outDir string) error {
	opts := download.Options{
		URL:     url,
		SaveDir: cfg.Paths.SaveDir,
		Client:  &http.Client{Timeout: cfg.Download.Timeout},
		Logger:  slog.Default(),
	}
	if !cfg.Download.Quiet {
		opts.Progress = os.Stderr
	}

	res, err := runDownload(ctx, opts)
	if err != nil {
		return fmt.Errorf("download voice %s: %w", name, err)
	}
	if res.Temporary {
		defer func() { _ = os.Remove(res.Path) }()
	}

	stats, err := runConvert(ctx, cfg, res.Path, outDir)
	if err != nil {
		return fmt.Errorf("convert voice %s: %w", name, err)
	}

	_, _ = fmt.Fprintf(out, "%s: %d clips, %d train, %d valid -> %s\n",
		name, stats.Clips, stats.Train, stats.Valid, outDir)

	return nil
}

// convertArchive converts a local archive using the configured decoder and
// split settings.
func convertArchive(ctx context.Context, cfg config.Config, archivePath, outDir string) (dataset.Stats, error) {
	conv := &dataset.Converter{
		Decoder:    audio.FileDecoder{FFmpegPath: cfg.FFmpeg.Path},
		SampleRate: cfg.Convert.SampleRate,
		Resample:   cfg.Convert.Resample,
		Splitter:   dataset.NewSplitter(cfg.Convert.Seed, cfg.Convert.TrainRatio),
		Logger:     slog.Default(),
	}

	return conv.ConvertZip(ctx, archivePath, outDir)
}
