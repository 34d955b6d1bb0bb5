package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cwbudde/wav"
)

// ErrInvalidWAV is returned when input bytes are not a decodable WAV file.
var ErrInvalidWAV = errors.New("invalid WAV file")

// Clip is decoded PCM audio. Samples are interleaved when Channels > 1.
type Clip struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Frames returns the number of sample frames in the clip.
func (c Clip) Frames() int {
	if c.Channels < 1 {
		return 0
	}

	return len(c.Samples) / c.Channels
}

// DecodeWAV decodes WAV bytes into a Clip, keeping the source sample rate
// and channel layout.
func DecodeWAV(data []byte) (Clip, error) {
	if len(data) == 0 {
		return Clip{}, fmt.Errorf("%w: empty input", ErrInvalidWAV)
	}

	return decodeWAV(bytes.NewReader(data))
}

// DecodeWAVFile decodes the WAV file at path.
func DecodeWAVFile(path string) (Clip, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("open wav: %w", err)
	}
	defer func() { _ = fh.Close() }()

	clip, err := decodeWAV(fh)
	if err != nil {
		return Clip{}, fmt.Errorf("%s: %w", path, err)
	}

	return clip, nil
}

func decodeWAV(r io.ReadSeeker) (Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Clip{}, ErrInvalidWAV
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("reading PCM data: %w", err)
	}

	clip := Clip{
		Samples:    buf.Data,
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
	}
	if clip.SampleRate < 1 || clip.Channels < 1 {
		return Clip{}, fmt.Errorf("%w: %d Hz, %d channels", ErrInvalidWAV, clip.SampleRate, clip.Channels)
	}

	return clip, nil
}
