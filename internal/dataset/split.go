package dataset

import (
	"math/rand/v2"
	"time"
)

// DefaultTrainRatio is the share of utterances routed to train.txt.
const DefaultTrainRatio = 0.98

// Splitter decides, per utterance, whether it belongs to the training or the
// validation manifest.
type Splitter struct {
	rng   *rand.Rand
	ratio float64
}

// NewSplitter returns a Splitter sending ratio of the utterances to train.
// A zero seed seeds from the clock; any other seed gives a reproducible split.
func NewSplitter(seed int64, ratio float64) *Splitter {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return NewSplitterFrom(rand.New(rand.NewPCG(uint64(seed), 0)), ratio)
}

// NewSplitterFrom wraps an existing random source.
func NewSplitterFrom(rng *rand.Rand, ratio float64) *Splitter {
	return &Splitter{rng: rng, ratio: ratio}
}

// Train draws the next decision.
func (s *Splitter) Train() bool {
	return s.rng.Float64() < s.ratio
}

// Ratio returns the configured train share.
func (s *Splitter) Ratio() float64 { return s.ratio }
