package audio

import (
	"math"
	"testing"
)

func TestResampledLength(t *testing.T) {
	tests := []struct {
		n, from, to int
		want        int
	}{
		{48000, 48000, 22050, 22050},
		{22050, 22050, 22050, 22050},
		{16000, 16000, 22050, 22050},
		{1, 48000, 22050, 1},
		{3, 44100, 22050, 2},
		{0, 48000, 22050, 0},
		{100, 0, 22050, 0},
	}

	for _, tt := range tests {
		if got := ResampledLength(tt.n, tt.from, tt.to); got != tt.want {
			t.Errorf("ResampledLength(%d, %d, %d) = %d; want %d", tt.n, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestResample_SameRateCopies(t *testing.T) {
	in := Clip{Samples: []float32{0.1, 0.2, 0.3}, SampleRate: 22050, Channels: 1}

	out, err := Resample(in, 22050)
	if err != nil {
		t.Fatalf("Resample error = %v", err)
	}

	out.Samples[0] = 9
	if in.Samples[0] != 0.1 {
		t.Fatal("Resample at equal rate aliased the input samples")
	}
}

func TestResample_InvalidInput(t *testing.T) {
	if _, err := Resample(Clip{SampleRate: 48000, Channels: 1}, 0); err == nil {
		t.Error("expected error for zero target rate")
	}

	if _, err := Resample(Clip{SampleRate: 0, Channels: 1}, 22050); err == nil {
		t.Error("expected error for zero source rate")
	}
}

func TestResample_PreservesDC(t *testing.T) {
	for _, from := range []int{48000, 16000} {
		in := Clip{Samples: constant(from, 0.5), SampleRate: from, Channels: 1}

		out, err := Resample(in, 22050)
		if err != nil {
			t.Fatalf("Resample(%d) error = %v", from, err)
		}

		if out.SampleRate != 22050 || out.Frames() != 22050 {
			t.Fatalf("Resample(%d) = %d Hz, %d frames; want 22050, 22050", from, out.SampleRate, out.Frames())
		}

		// Edges see a truncated kernel; check the settled middle.
		mid := out.Samples[1000 : len(out.Samples)-1000]
		for i, s := range mid {
			if math.Abs(float64(s)-0.5) > 0.02 {
				t.Fatalf("Resample(%d) sample %d = %f; want ~0.5", from, i+1000, s)
			}
		}
	}
}

func TestResample_KeepsFrequency(t *testing.T) {
	const from, freq = 48000, 440.0
	in := Clip{Samples: sine(from, from, freq), SampleRate: from, Channels: 1}

	out, err := Resample(in, 22050)
	if err != nil {
		t.Fatalf("Resample error = %v", err)
	}

	crossings := zeroCrossings(out.Samples)
	if math.Abs(float64(crossings)-2*freq) > 4 {
		t.Errorf("zero crossings = %d; want ~%d", crossings, int(2*freq))
	}

	if peak := peakOf(out.Samples); math.Abs(peak-0.8) > 0.05 {
		t.Errorf("peak = %f; want ~0.8", peak)
	}
}

func TestResample_StereoChannelsIndependent(t *testing.T) {
	const from = 44100
	samples := make([]float32, 2*from)
	for i := 0; i < from; i++ {
		samples[2*i] = 0.5
		samples[2*i+1] = -0.5
	}

	out, err := Resample(Clip{Samples: samples, SampleRate: from, Channels: 2}, 22050)
	if err != nil {
		t.Fatalf("Resample error = %v", err)
	}

	if out.Channels != 2 || out.Frames() != 22050 {
		t.Fatalf("got %d ch, %d frames; want 2 ch, 22050 frames", out.Channels, out.Frames())
	}

	for i := 500; i < out.Frames()-500; i++ {
		l, r := out.Samples[2*i], out.Samples[2*i+1]
		if l < 0.45 || r > -0.45 {
			t.Fatalf("frame %d = (%f, %f); want (~0.5, ~-0.5)", i, l, r)
		}
	}
}

func constant(n int, v float32) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}

	return out
}

func sine(n, rate int, freq float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.8 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}

	return out
}

func zeroCrossings(x []float32) int {
	n := 0
	for i := 1; i < len(x); i++ {
		if (x[i-1] < 0) != (x[i] < 0) {
			n++
		}
	}

	return n
}
