package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for clips that need an external decoder
// when none is configured.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Decoder loads an audio file from disk.
type Decoder interface {
	Decode(ctx context.Context, path string) (Clip, error)
}

// FileDecoder decodes WAV files natively and hands every other container
// (webm/opus, ogg, mp3, flac) to ffmpeg, which converts it to a temporary
// PCM WAV file first.
type FileDecoder struct {
	// FFmpegPath is the ffmpeg executable. Empty disables non-WAV input.
	FFmpegPath string
	// TempDir holds intermediate WAV files; empty uses os.TempDir.
	TempDir string
}

// Decode implements Decoder.
func (d FileDecoder) Decode(ctx context.Context, path string) (Clip, error) {
	if strings.EqualFold(filepath.Ext(path), ".wav") {
		return DecodeWAVFile(path)
	}

	if d.FFmpegPath == "" {
		return Clip{}, fmt.Errorf("%w: %s (no ffmpeg configured)", ErrUnsupportedFormat, filepath.Ext(path))
	}

	tmp, err := os.CreateTemp(d.TempDir, "voicedata-decode-*.wav")
	if err != nil {
		return Clip{}, fmt.Errorf("create decode temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := runFFmpeg(ctx, d.FFmpegPath, path, tmpPath); err != nil {
		return Clip{}, err
	}

	return DecodeWAVFile(tmpPath)
}

// ffmpegArgs keeps the source rate and channel layout; resampling happens in
// Go so the output does not depend on the ffmpeg build.
func ffmpegArgs(in, out string) []string {
	return []string{
		"-hide_banner",
		"-loglevel", "error",
		"-nostdin",
		"-y",
		"-i", in,
		"-vn",
		"-c:a", "pcm_s16le",
		"-f", "wav",
		out,
	}
}

func runFFmpeg(ctx context.Context, exe, in, out string) error {
	cmd := exec.CommandContext(ctx, exe, ffmpegArgs(in, out)...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return mapFFmpegError(exe, in, err, stderr.String())
	}

	return nil
}

func mapFFmpegError(exe, in string, err error, stderr string) error {
	if errors.Is(err, exec.ErrNotFound) {
		return fmt.Errorf("ffmpeg executable %q not found (set --ffmpeg-path): %w", exe, err)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = exitErr.Error()
		}

		return fmt.Errorf("ffmpeg failed to decode %s: %s: %w", filepath.Base(in), msg, err)
	}

	return fmt.Errorf("run ffmpeg: %w", err)
}

// FFmpegVersion returns the first line of `ffmpeg -version`.
func FFmpegVersion(ctx context.Context, exe string) (string, error) {
	out, err := exec.CommandContext(ctx, exe, "-version").Output()
	if err != nil {
		return "", fmt.Errorf("%s -version failed: %w", exe, err)
	}

	line, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")

	return strings.TrimSpace(line), nil
}
