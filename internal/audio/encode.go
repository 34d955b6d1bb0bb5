package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/wav"
	goaudio "github.com/go-audio/audio"
)

// OutputBitDepth is the bit depth of every WAV file written by this package.
const OutputBitDepth = 16

// EncodeWAV encodes clip as a 16-bit PCM WAV byte slice.
func EncodeWAV(clip Clip) ([]byte, error) {
	var buf bytes.Buffer

	// wav.NewEncoder requires an io.WriteSeeker; bytes.Buffer is not one.
	sw := &seekBuffer{buf: &buf}
	if err := WriteWAV(sw, clip); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// WriteWAVFile writes clip to path as a 16-bit PCM WAV file, replacing any
// existing file.
func WriteWAVFile(path string, clip Clip) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav: %w", err)
	}

	if err := WriteWAV(fh, clip); err != nil {
		_ = fh.Close()
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := fh.Close(); err != nil {
		return fmt.Errorf("close wav: %w", err)
	}

	return nil
}

// WriteWAV encodes clip into w.
func WriteWAV(w io.WriteSeeker, clip Clip) error {
	if clip.SampleRate < 1 {
		return fmt.Errorf("invalid sample rate: %d", clip.SampleRate)
	}
	if clip.Channels < 1 {
		return fmt.Errorf("invalid channel count: %d", clip.Channels)
	}

	enc := wav.NewEncoder(w, clip.SampleRate, OutputBitDepth, clip.Channels, 1) // 1 = PCM

	pcmBuf := &goaudio.Float32Buffer{
		Data:           clip.Samples,
		Format:         &goaudio.Format{SampleRate: clip.SampleRate, NumChannels: clip.Channels},
		SourceBitDepth: OutputBitDepth,
	}

	if err := enc.Write(pcmBuf); err != nil {
		return fmt.Errorf("writing PCM: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("closing encoder: %w", err)
	}

	return nil
}

// seekBuffer wraps a bytes.Buffer to satisfy io.WriteSeeker.
type seekBuffer struct {
	buf *bytes.Buffer
	pos int
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	if s.pos == s.buf.Len() {
		n, err := s.buf.Write(p)
		s.pos += n
		return n, err
	}
	// Writing in the middle: overwrite existing bytes.
	data := s.buf.Bytes()
	n := copy(data[s.pos:], p)
	if n < len(p) {
		data = append(data, p[n:]...)
		s.buf.Reset()
		s.buf.Write(data)
		n = len(p)
	}
	s.pos += n
	return n, nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	var newPos int
	switch whence {
	case io.SeekStart:
		newPos = int(offset)
	case io.SeekCurrent:
		newPos = s.pos + int(offset)
	case io.SeekEnd:
		newPos = s.buf.Len() + int(offset)
	}
	if newPos < 0 {
		return 0, fmt.Errorf("seek before start")
	}
	s.pos = newPos
	return int64(newPos), nil
}
