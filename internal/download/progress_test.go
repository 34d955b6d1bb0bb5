package download

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestProgressWriter_LinesAreThrottled(t *testing.T) {
	var out bytes.Buffer
	pw := NewProgressWriter(&out, 100)

	clock := time.Unix(0, 0)
	pw.now = func() time.Time { return clock }
	pw.lastPrint = clock

	_, _ = pw.Write(make([]byte, 10))
	if out.Len() != 0 {
		t.Fatalf("printed before the interval elapsed: %q", out.String())
	}

	clock = clock.Add(time.Second)
	_, _ = pw.Write(make([]byte, 40))

	if got := out.String(); got != "  progress: 50.0% (50/100 bytes)\n" {
		t.Errorf("progress line = %q", got)
	}
}

func TestProgressWriter_UnknownTotal(t *testing.T) {
	var out bytes.Buffer
	pw := NewProgressWriter(&out, -1)

	_, _ = pw.Write(make([]byte, 7))
	pw.Finish()

	if !strings.Contains(out.String(), "progress: 7 bytes") {
		t.Errorf("progress output = %q", out.String())
	}
}

func TestProgressWriter_Bar(t *testing.T) {
	var out bytes.Buffer
	pw := NewProgressWriter(&out, 100)
	pw.barWidth = 12

	_, _ = pw.Write(make([]byte, 50))
	_, _ = pw.Write(make([]byte, 1))
	_, _ = pw.Write(make([]byte, 49))
	pw.Finish()

	got := out.String()
	if !strings.Contains(got, "\r[=====     ]") {
		t.Errorf("half-way bar missing from %q", got)
	}

	if !strings.HasSuffix(got, "\r[==========]\n") {
		t.Errorf("final bar missing from %q", got)
	}

	// 50 -> 51 bytes keeps the bar length, so only two frames are drawn.
	if strings.Count(got, "\r") != 2 {
		t.Errorf("bar redrawn %d times; want 2", strings.Count(got, "\r"))
	}
}
