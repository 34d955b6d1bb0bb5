// Package dataset turns a downloaded voice archive into training material:
// 16-bit WAV clips at a fixed sample rate plus train/valid manifests that
// pair each clip with its transcript.
package dataset

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/go-voicedata/internal/archive"
	"github.com/example/go-voicedata/internal/audio"
)

// Manifest file names written into the output directory.
const (
	TrainManifest = "train.txt"
	ValidManifest = "valid.txt"
)

// DefaultSampleRate is the rate every converted clip is written at.
const DefaultSampleRate = 22050

// audioExts lists the clip containers picked up from an archive.
var audioExts = map[string]bool{
	".webm": true,
	".wav":  true,
	".ogg":  true,
	".opus": true,
	".mp3":  true,
	".flac": true,
}

// Converter converts extracted archives. The zero value is not usable; set at
// least Decoder and Splitter.
type Converter struct {
	Decoder audio.Decoder
	// SampleRate of the written clips; 0 means DefaultSampleRate.
	SampleRate int
	// Resample converts clips to SampleRate. When false the samples are kept
	// as decoded and only the header carries SampleRate.
	Resample bool
	Splitter *Splitter
	// TempDir holds the scratch extraction directory; empty uses os.TempDir.
	TempDir string
	Logger  *slog.Logger
}

// Stats summarises one conversion.
type Stats struct {
	Clips int
	Train int
	Valid int
}

// Lines returns the number of manifest lines written.
func (s Stats) Lines() int { return s.Train + s.Valid }

// ConvertZip extracts archivePath into a scratch directory, converts every
// audio clip into outDir, and writes train/valid manifests for every
// transcript found. The scratch directory is removed on return.
func (c *Converter) ConvertZip(ctx context.Context, archivePath, outDir string) (Stats, error) {
	if c.Decoder == nil || c.Splitter == nil {
		return Stats{}, errors.New("converter needs a decoder and a splitter")
	}

	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return Stats{}, fmt.Errorf("resolve output dir: %w", err)
	}
	if err := os.MkdirAll(absOut, 0o755); err != nil {
		return Stats{}, fmt.Errorf("create output dir: %w", err)
	}

	scratch, err := os.MkdirTemp(c.TempDir, "voicedata-extract-*")
	if err != nil {
		return Stats{}, fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(scratch) }()

	if err := archive.Extract(archivePath, scratch); err != nil {
		return Stats{}, fmt.Errorf("extract %s: %w", filepath.Base(archivePath), err)
	}

	return c.ConvertDir(ctx, scratch, absOut)
}

// ConvertDir converts an already extracted dataset tree rooted at srcDir.
func (c *Converter) ConvertDir(ctx context.Context, srcDir, outDir string) (Stats, error) {
	logger := c.logger()
	start := time.Now()

	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return Stats{}, fmt.Errorf("resolve output dir: %w", err)
	}

	clips, transcripts, err := scan(srcDir)
	if err != nil {
		return Stats{}, err
	}

	var stats Stats
	for _, clip := range clips {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if err := c.convertClip(ctx, clip, wavPath(absOut, clip)); err != nil {
			return stats, err
		}
		stats.Clips++
	}

	train, valid, err := c.writeManifests(transcripts, absOut)
	stats.Train, stats.Valid = train, valid
	if err != nil {
		return stats, err
	}

	logger.Info("conversion complete",
		slog.String("output_dir", absOut),
		slog.Int("clips", stats.Clips),
		slog.Int("train", stats.Train),
		slog.Int("valid", stats.Valid),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	return stats, nil
}

func (c *Converter) convertClip(ctx context.Context, src, dst string) error {
	rate := c.SampleRate
	if rate == 0 {
		rate = DefaultSampleRate
	}

	clip, err := c.Decoder.Decode(ctx, src)
	if err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(src), err)
	}

	if c.Resample {
		clip, err = audio.Resample(clip, rate)
		if err != nil {
			return fmt.Errorf("resample %s: %w", filepath.Base(src), err)
		}
	} else {
		clip.SampleRate = rate
	}

	if err := audio.WriteWAVFile(dst, clip); err != nil {
		return err
	}

	c.logger().Debug("clip converted", slog.String("src", src), slog.String("dst", dst))

	return nil
}

// writeManifests truncates both manifests and appends one line per
// transcript. Transcripts are not matched against converted clips.
func (c *Converter) writeManifests(transcripts []string, outDir string) (train, valid int, err error) {
	trainFile, err := os.Create(filepath.Join(outDir, TrainManifest))
	if err != nil {
		return 0, 0, fmt.Errorf("create %s: %w", TrainManifest, err)
	}
	defer closeInto(trainFile, &err)

	validFile, err := os.Create(filepath.Join(outDir, ValidManifest))
	if err != nil {
		return 0, 0, fmt.Errorf("create %s: %w", ValidManifest, err)
	}
	defer closeInto(validFile, &err)

	tw := bufio.NewWriter(trainFile)
	vw := bufio.NewWriter(validFile)

	for _, path := range transcripts {
		raw, readErr := os.ReadFile(path)
		if readErr != nil {
			return train, valid, fmt.Errorf("read transcript: %w", readErr)
		}

		line := wavPath(outDir, path) + "|" + strings.TrimSpace(string(raw)) + "\n"

		w := vw
		if c.Splitter.Train() {
			w = tw
			train++
		} else {
			valid++
		}

		if _, err := w.WriteString(line); err != nil {
			return train, valid, fmt.Errorf("write manifest: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return train, valid, fmt.Errorf("flush %s: %w", TrainManifest, err)
	}
	if err := vw.Flush(); err != nil {
		return train, valid, fmt.Errorf("flush %s: %w", ValidManifest, err)
	}

	return train, valid, nil
}

func (c *Converter) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}

	return c.Logger
}

// scan walks root in lexical order and returns audio clips and transcripts.
func scan(root string) (clips, transcripts []string, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		switch {
		case audioExts[ext]:
			clips = append(clips, path)
		case ext == ".txt" && !isManifest(d.Name()):
			transcripts = append(transcripts, path)
		}

		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("scan %s: %w", root, err)
	}

	return clips, transcripts, nil
}

func isManifest(name string) bool {
	return name == TrainManifest || name == ValidManifest
}

// wavPath maps a clip or transcript to its converted clip in outDir.
func wavPath(outDir, src string) string {
	base := filepath.Base(src)
	return filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".wav")
}

func closeInto(f *os.File, errp *error) {
	if err := f.Close(); err != nil && *errp == nil {
		*errp = fmt.Errorf("close %s: %w", filepath.Base(f.Name()), err)
	}
}
