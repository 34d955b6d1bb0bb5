package audio

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/go-voicedata/internal/testutil"
)

func TestFileDecoder_WAVWithoutFFmpeg(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.WAV")
	if err := os.WriteFile(path, makeWAV(16000, 1, 160, 1000), 0o644); err != nil {
		t.Fatalf("write wav: %v", err)
	}

	clip, err := FileDecoder{}.Decode(context.Background(), path)
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}

	if clip.SampleRate != 16000 || clip.Frames() != 160 {
		t.Errorf("got %d Hz, %d frames; want 16000 Hz, 160 frames", clip.SampleRate, clip.Frames())
	}
}

func TestFileDecoder_NonWAVNeedsFFmpeg(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.webm")
	if err := os.WriteFile(path, []byte("webm"), 0o644); err != nil {
		t.Fatalf("write clip: %v", err)
	}

	_, err := FileDecoder{}.Decode(context.Background(), path)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFileDecoder_MissingFFmpeg(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.webm")
	if err := os.WriteFile(path, []byte("webm"), 0o644); err != nil {
		t.Fatalf("write clip: %v", err)
	}

	dec := FileDecoder{FFmpegPath: "/nonexistent/ffmpeg-binary", TempDir: t.TempDir()}

	_, err := dec.Decode(context.Background(), path)
	if err == nil {
		t.Fatal("expected error for missing ffmpeg")
	}

	if !strings.Contains(err.Error(), "ffmpeg") {
		t.Errorf("error %q does not mention ffmpeg", err)
	}

	entries, _ := os.ReadDir(dec.TempDir)
	if len(entries) != 0 {
		t.Errorf("decode temp files left behind: %v", entries)
	}
}

func TestFileDecoder_FFmpegIntegration(t *testing.T) {
	ffmpeg := testutil.RequireFFmpeg(t)

	// ffmpeg probes the container, so a WAV payload under a .webm name
	// exercises the subprocess path.
	path := filepath.Join(t.TempDir(), "clip.webm")
	if err := os.WriteFile(path, makeWAV(48000, 1, 4800, 2000), 0o644); err != nil {
		t.Fatalf("write clip: %v", err)
	}

	clip, err := FileDecoder{FFmpegPath: ffmpeg, TempDir: t.TempDir()}.Decode(context.Background(), path)
	if err != nil {
		t.Fatalf("Decode error = %v", err)
	}

	if clip.SampleRate != 48000 || clip.Channels != 1 || clip.Frames() != 4800 {
		t.Errorf("got %d Hz, %d ch, %d frames; want 48000 Hz, 1 ch, 4800 frames",
			clip.SampleRate, clip.Channels, clip.Frames())
	}
}

func TestFFmpegArgs(t *testing.T) {
	args := strings.Join(ffmpegArgs("in.webm", "out.wav"), " ")

	for _, want := range []string{"-i in.webm", "-c:a pcm_s16le", "-nostdin", "out.wav"} {
		if !strings.Contains(args, want) {
			t.Errorf("ffmpeg args %q missing %q", args, want)
		}
	}

	if strings.Contains(args, "-ar") {
		t.Errorf("ffmpeg args %q must not resample", args)
	}
}

func TestMapFFmpegError_NotFound(t *testing.T) {
	err := mapFFmpegError("ffmpeg", "a.webm", exec.ErrNotFound, "")
	if !errors.Is(err, exec.ErrNotFound) {
		t.Errorf("expected ErrNotFound to be wrapped, got %v", err)
	}
}

func TestMapFFmpegError_ExitError(t *testing.T) {
	runErr := exec.Command("false").Run()
	if runErr == nil {
		t.Skip("'false' command succeeded unexpectedly")
	}

	mapped := mapFFmpegError("ffmpeg", "/tmp/x/a.webm", runErr, "Invalid data found when processing input\n")

	var exitErr *exec.ExitError
	if !errors.As(mapped, &exitErr) {
		t.Errorf("expected *exec.ExitError to be wrapped, got %T: %v", mapped, mapped)
	}

	if !strings.Contains(mapped.Error(), "Invalid data found") || !strings.Contains(mapped.Error(), "a.webm") {
		t.Errorf("error %q should carry ffmpeg stderr and clip name", mapped)
	}
}

func TestMapFFmpegError_OtherError(t *testing.T) {
	sentinel := errors.New("boom")

	if got := mapFFmpegError("ffmpeg", "a.webm", sentinel, ""); !errors.Is(got, sentinel) {
		t.Errorf("expected sentinel error to be wrapped, got %v", got)
	}
}
