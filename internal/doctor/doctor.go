// Package doctor provides environment preflight checks for voicedata.
package doctor

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// PassMark and FailMark are the prefix symbols printed for each check result.
const (
	PassMark = "✓"
	FailMark = "✗"
)

// minFFmpegMajor is the oldest supported ffmpeg release.
const minFFmpegMajor = 4

// VersionFunc returns a version string or an error if the component is unavailable.
type VersionFunc func() (string, error)

// Config holds injectable dependencies for each doctor check.
type Config struct {
	// FFmpegVersion returns the first line of `ffmpeg -version`.
	FFmpegVersion VersionFunc
	// SkipFFmpeg skips the ffmpeg check (WAV-only archives).
	SkipFFmpeg bool
	// WritableDirs are created if needed and probed with a temp file.
	WritableDirs []string
	// Archives are local archive paths that must exist.
	Archives []string
}

// Result collects the outcome of all checks.
type Result struct {
	failures []string
}

// Failed returns true if any check failed.
func (r *Result) Failed() bool { return len(r.failures) > 0 }

// Failures returns the list of failure messages.
func (r *Result) Failures() []string { return append([]string(nil), r.failures...) }

// AddFailure appends an external failure message to the result.
func (r *Result) AddFailure(msg string) { r.failures = append(r.failures, msg) }

func (r *Result) fail(msg string) { r.failures = append(r.failures, msg) }

// Run executes all configured checks and writes human-readable output to w.
// Each check line is prefixed with PassMark or FailMark.
func Run(cfg Config, w io.Writer) Result {
	var res Result

	// ---- ffmpeg binary ----------------------------------------------------
	if cfg.SkipFFmpeg {
		fmt.Fprintf(w, "%s ffmpeg: skipped\n", PassMark)
	} else {
		ver, err := cfg.FFmpegVersion()
		if err != nil {
			res.fail(fmt.Sprintf("ffmpeg: %v", err))
			fmt.Fprintf(w, "%s ffmpeg: not found (%v)\n", FailMark, err)
		} else if verErr := checkFFmpegVersion(ver); verErr != nil {
			res.fail(fmt.Sprintf("ffmpeg: %v", verErr))
			fmt.Fprintf(w, "%s ffmpeg %s: %v\n", FailMark, ver, verErr)
		} else {
			fmt.Fprintf(w, "%s ffmpeg: %s\n", PassMark, ver)
		}
	}

	// ---- directories ------------------------------------------------------
	for _, dir := range cfg.WritableDirs {
		if err := probeWritable(dir); err != nil {
			res.fail(fmt.Sprintf("directory %q: %v", dir, err))
			fmt.Fprintf(w, "%s directory %s: not writable (%v)\n", FailMark, dir, err)
		} else {
			fmt.Fprintf(w, "%s directory: %s\n", PassMark, dir)
		}
	}

	// ---- archives ---------------------------------------------------------
	for _, path := range cfg.Archives {
		if _, err := os.Stat(path); err != nil {
			res.fail(fmt.Sprintf("archive %q: %v", path, err))
			fmt.Fprintf(w, "%s archive %s: not found\n", FailMark, path)
		} else {
			fmt.Fprintf(w, "%s archive: %s\n", PassMark, path)
		}
	}

	return res
}

func probeWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	fh, err := os.CreateTemp(dir, ".voicedata-doctor-*")
	if err != nil {
		return err
	}

	name := fh.Name()
	_ = fh.Close()

	return os.Remove(name)
}

// checkFFmpegVersion returns an error for releases older than
// minFFmpegMajor. Git snapshot builds ("N-112233-g...") carry no release
// number and are accepted.
func checkFFmpegVersion(line string) error {
	ver := ffmpegRelease(line)
	if ver == "" || strings.HasPrefix(ver, "N-") {
		return nil
	}

	major, _, err := parseMajorMinor(strings.TrimPrefix(ver, "n"))
	if err != nil {
		return fmt.Errorf("cannot parse %q: %w", ver, err)
	}
	if major < minFFmpegMajor {
		return fmt.Errorf("requires ffmpeg >=%d, got %s", minFFmpegMajor, ver)
	}

	return nil
}

// ffmpegRelease extracts the token after "version" from a line such as
// "ffmpeg version 6.1.1-3ubuntu5 Copyright (c) 2000-2023".
func ffmpegRelease(line string) string {
	fields := strings.Fields(line)
	for i := 0; i+1 < len(fields); i++ {
		if fields[i] == "version" {
			return fields[i+1]
		}
	}

	return ""
}

func parseMajorMinor(ver string) (major, minor int, err error) {
	parts := strings.SplitN(ver, ".", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("unexpected version format %q", ver)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("bad major in %q: %w", ver, err)
	}
	minor, err = strconv.Atoi(leadingDigits(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("bad minor in %q: %w", ver, err)
	}
	return major, minor, nil
}

// leadingDigits trims distro suffixes such as "1-3ubuntu5".
func leadingDigits(s string) string {
	for i, r := range s {
		if r < '0' || r > '9' {
			return s[:i]
		}
	}

	return s
}
