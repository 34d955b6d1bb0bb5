package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// makeWAV builds a minimal valid 16-bit WAV file where every sample holds
// value.
func makeWAV(sampleRate uint32, numChannels uint16, numFrames int, value int16) []byte {
	const bitDepth = 16
	blockAlign := numChannels * bitDepth / 8
	byteRate := sampleRate * uint32(blockAlign)
	dataSize := uint32(numFrames) * uint32(blockAlign)
	riffSize := 4 + (8 + 16) + (8 + dataSize)

	buf := &bytes.Buffer{}
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, riffSize)
	buf.WriteString("WAVE")

	// fmt chunk
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16)) // chunk size
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))  // PCM
	_ = binary.Write(buf, binary.LittleEndian, numChannels)
	_ = binary.Write(buf, binary.LittleEndian, sampleRate)
	_ = binary.Write(buf, binary.LittleEndian, byteRate)
	_ = binary.Write(buf, binary.LittleEndian, blockAlign)
	_ = binary.Write(buf, binary.LittleEndian, uint16(bitDepth))

	// data chunk
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, dataSize)
	for range numFrames * int(numChannels) {
		_ = binary.Write(buf, binary.LittleEndian, value)
	}

	return buf.Bytes()
}

func TestDecodeWAV(t *testing.T) {
	t.Run("keeps source rate and channels", func(t *testing.T) {
		clip, err := DecodeWAV(makeWAV(44100, 2, 100, 0))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if clip.SampleRate != 44100 {
			t.Errorf("SampleRate = %d, want 44100", clip.SampleRate)
		}
		if clip.Channels != 2 {
			t.Errorf("Channels = %d, want 2", clip.Channels)
		}
		if clip.Frames() != 100 {
			t.Errorf("Frames() = %d, want 100", clip.Frames())
		}
	})

	t.Run("rejects empty input", func(t *testing.T) {
		_, err := DecodeWAV(nil)
		if !errors.Is(err, ErrInvalidWAV) {
			t.Fatalf("expected ErrInvalidWAV, got %v", err)
		}
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := DecodeWAV([]byte("this is not a wav file at all, just some text"))
		if err == nil {
			t.Fatal("expected error for garbage input")
		}
	})
}

func TestDecodeWAVFile_Missing(t *testing.T) {
	_, err := DecodeWAVFile(filepath.Join(t.TempDir(), "missing.wav"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestEncodeWAV_RoundTrip(t *testing.T) {
	in := Clip{Samples: make([]float32, 200), SampleRate: 22050, Channels: 1}
	for i := range in.Samples {
		in.Samples[i] = 0.25
	}

	data, err := EncodeWAV(in)
	if err != nil {
		t.Fatalf("EncodeWAV error = %v", err)
	}

	if !bytes.HasPrefix(data, []byte("RIFF")) {
		t.Fatal("output does not start with RIFF")
	}

	// Sample rate is at offset 24 in a canonical header.
	if got := binary.LittleEndian.Uint32(data[24:28]); got != 22050 {
		t.Errorf("sample rate in header = %d; want 22050", got)
	}

	out, err := DecodeWAV(data)
	if err != nil {
		t.Fatalf("DecodeWAV error = %v", err)
	}

	if out.SampleRate != 22050 || out.Channels != 1 || out.Frames() != 200 {
		t.Fatalf("decoded %d Hz, %d ch, %d frames; want 22050 Hz, 1 ch, 200 frames",
			out.SampleRate, out.Channels, out.Frames())
	}

	for i, s := range out.Samples {
		if s <= 0 {
			t.Fatalf("sample %d = %f; want positive", i, s)
		}
	}
}

func TestWriteWAVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	clip := Clip{Samples: make([]float32, 64), SampleRate: 16000, Channels: 2}

	if err := WriteWAVFile(path, clip); err != nil {
		t.Fatalf("WriteWAVFile error = %v", err)
	}

	got, err := DecodeWAVFile(path)
	if err != nil {
		t.Fatalf("DecodeWAVFile error = %v", err)
	}

	if got.Channels != 2 || got.Frames() != 32 || got.SampleRate != 16000 {
		t.Errorf("got %d ch, %d frames, %d Hz; want 2 ch, 32 frames, 16000 Hz",
			got.Channels, got.Frames(), got.SampleRate)
	}
}

func TestWriteWAV_InvalidFormat(t *testing.T) {
	tests := []struct {
		name string
		clip Clip
	}{
		{"zero rate", Clip{Samples: []float32{0}, SampleRate: 0, Channels: 1}},
		{"negative rate", Clip{Samples: []float32{0}, SampleRate: -1, Channels: 1}},
		{"no channels", Clip{Samples: []float32{0}, SampleRate: 22050, Channels: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := EncodeWAV(tt.clip); err == nil {
				t.Error("EncodeWAV = nil error; want error")
			}
		})
	}
}

func TestSeekBuffer_OverwriteHeader(t *testing.T) {
	var buf bytes.Buffer
	sw := &seekBuffer{buf: &buf}

	_, _ = sw.Write([]byte("abcdef"))
	if _, err := sw.Seek(2, 0); err != nil {
		t.Fatalf("Seek error = %v", err)
	}
	_, _ = sw.Write([]byte("XY"))

	if got := buf.String(); got != "abXYef" {
		t.Errorf("buffer = %q; want %q", got, "abXYef")
	}

	if _, err := sw.Seek(-1, 0); err == nil {
		t.Error("Seek(-1) = nil; want error")
	}
}

func TestClipFrames(t *testing.T) {
	if got := (Clip{Samples: make([]float32, 10), Channels: 2}).Frames(); got != 5 {
		t.Errorf("Frames() = %d; want 5", got)
	}

	if got := (Clip{Samples: make([]float32, 10)}).Frames(); got != 0 {
		t.Errorf("Frames() without channels = %d; want 0", got)
	}
}

func peakOf(samples []float32) float64 {
	var peak float64
	for _, s := range samples {
		peak = math.Max(peak, math.Abs(float64(s)))
	}

	return peak
}
