package audio

import (
	"fmt"
	"math"
)

// Band-limited interpolation parameters: zero crossings on each side of the
// kernel and the low-pass cutoff relative to the lower Nyquist frequency.
const (
	lowpassFilterWidth = 6
	rolloff            = 0.99
)

// Resample converts clip to the target sample rate using windowed-sinc
// interpolation with a Hann window. Channels are processed independently.
// A clip already at the target rate is returned as a copy.
func Resample(clip Clip, target int) (Clip, error) {
	if target < 1 {
		return Clip{}, fmt.Errorf("invalid target sample rate: %d", target)
	}
	if clip.SampleRate < 1 || clip.Channels < 1 {
		return Clip{}, fmt.Errorf("invalid source clip: %d Hz, %d channels", clip.SampleRate, clip.Channels)
	}

	if clip.SampleRate == target {
		return Clip{
			Samples:    append([]float32(nil), clip.Samples...),
			SampleRate: target,
			Channels:   clip.Channels,
		}, nil
	}

	inFrames := clip.Frames()
	outFrames := ResampledLength(inFrames, clip.SampleRate, target)
	out := make([]float32, outFrames*clip.Channels)

	k := newSincKernel(clip.SampleRate, target)
	channel := make([]float32, inFrames)
	for ch := 0; ch < clip.Channels; ch++ {
		for i := 0; i < inFrames; i++ {
			channel[i] = clip.Samples[i*clip.Channels+ch]
		}
		for j := 0; j < outFrames; j++ {
			out[j*clip.Channels+ch] = k.at(channel, float64(j)*k.step)
		}
	}

	return Clip{Samples: out, SampleRate: target, Channels: clip.Channels}, nil
}

// ResampledLength returns the number of frames produced when n frames at
// rate from are resampled to rate to.
func ResampledLength(n, from, to int) int {
	if n <= 0 || from < 1 || to < 1 {
		return 0
	}

	return int((int64(n)*int64(to) + int64(from) - 1) / int64(from))
}

type sincKernel struct {
	// step is the distance in input frames between two output frames.
	step      float64
	cutoff    float64
	halfWidth float64
}

func newSincKernel(from, to int) sincKernel {
	cutoff := rolloff
	if to < from {
		cutoff *= float64(to) / float64(from)
	}

	return sincKernel{
		step:      float64(from) / float64(to),
		cutoff:    cutoff,
		halfWidth: lowpassFilterWidth / cutoff,
	}
}

// at interpolates x at fractional input position t.
func (k sincKernel) at(x []float32, t float64) float32 {
	lo := int(math.Ceil(t - k.halfWidth))
	hi := int(math.Floor(t + k.halfWidth))
	if lo < 0 {
		lo = 0
	}
	if hi > len(x)-1 {
		hi = len(x) - 1
	}

	var acc float64
	for i := lo; i <= hi; i++ {
		d := t - float64(i)
		acc += float64(x[i]) * k.cutoff * sinc(k.cutoff*d) * hann(d, k.halfWidth)
	}

	return float32(acc)
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x

	return math.Sin(px) / px
}

func hann(d, halfWidth float64) float64 {
	if math.Abs(d) > halfWidth {
		return 0
	}
	c := math.Cos(math.Pi * d / (2 * halfWidth))

	return c * c
}
