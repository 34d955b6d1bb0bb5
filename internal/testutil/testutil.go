// Package testutil provides shared skip helpers and fixtures for tests.
//
// Each Require helper calls t.Skip with a clear human-readable reason when the
// named prerequisite is absent, so integration tests remain runnable in
// partial environments without failing noisily.
//
// Typical usage:
//
//	func TestDecodeWebm(t *testing.T) {
//	    ffmpeg := testutil.RequireFFmpeg(t)
//	    ...
//	}
package testutil

import (
	"archive/zip"
	"os"
	"os/exec"
	"testing"
)

// RequireFFmpeg skips the test if ffmpeg is not found in PATH or at the path
// given by the VOICEDATA_FFMPEG_PATH environment variable. It returns the
// resolved executable path.
func RequireFFmpeg(tb testing.TB) string {
	tb.Helper()

	exe := os.Getenv("VOICEDATA_FFMPEG_PATH")
	if exe == "" {
		exe = "ffmpeg"
	}

	resolved, err := exec.LookPath(exe)
	if err != nil {
		tb.Skipf("ffmpeg not available (%q not in PATH); set VOICEDATA_FFMPEG_PATH to override", exe)
		return ""
	}

	return resolved
}

// WriteZip creates a zip archive at path holding files, keyed by entry name.
// Entries are written in the order given by names; files without a name in
// names are not written.
func WriteZip(tb testing.TB, path string, names []string, files map[string][]byte) {
	tb.Helper()

	fh, err := os.Create(path)
	if err != nil {
		tb.Fatalf("create zip: %v", err)
	}

	zw := zip.NewWriter(fh)
	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			tb.Fatalf("create zip entry %s: %v", name, err)
		}

		if _, err := w.Write(files[name]); err != nil {
			tb.Fatalf("write zip entry %s: %v", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		tb.Fatalf("close zip writer: %v", err)
	}

	if err := fh.Close(); err != nil {
		tb.Fatalf("close zip: %v", err)
	}
}
