package download

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"golang.org/x/term"
)

const (
	maxBarWidth   = 80
	printInterval = 700 * time.Millisecond
)

// ProgressWriter counts bytes written through it and renders progress to
// out: a redrawn bar on a terminal, periodic text lines otherwise.
type ProgressWriter struct {
	out     io.Writer
	Total   int64
	Current int64

	barWidth   int
	lastBarLen int
	lastPrint  time.Time
	now        func() time.Time
}

// NewProgressWriter returns a ProgressWriter for a transfer of total bytes
// (total <= 0 when unknown).
func NewProgressWriter(out io.Writer, total int64) *ProgressWriter {
	pw := &ProgressWriter{out: out, Total: total, now: time.Now, lastBarLen: -1}
	pw.lastPrint = pw.now()

	if f, ok := out.(*os.File); ok && total > 0 && term.IsTerminal(int(f.Fd())) {
		width, _, err := term.GetSize(int(f.Fd()))
		if err != nil || width <= 0 {
			width = maxBarWidth
		}
		pw.barWidth = min(width, maxBarWidth)
	}

	return pw
}

func (pw *ProgressWriter) Write(p []byte) (int, error) {
	pw.Current += int64(len(p))

	if pw.barWidth > 0 {
		pw.drawBar()
		return len(p), nil
	}

	if pw.now().Sub(pw.lastPrint) > printInterval {
		pw.printLine()
		pw.lastPrint = pw.now()
	}

	return len(p), nil
}

// Finish renders the final state.
func (pw *ProgressWriter) Finish() {
	if pw.barWidth > 0 {
		pw.drawBar()
		_, _ = fmt.Fprintln(pw.out)
		return
	}

	pw.printLine()
}

func (pw *ProgressWriter) drawBar() {
	inner := pw.barWidth - 2
	barLen := int(float64(inner) * float64(pw.Current) / float64(pw.Total))
	barLen = max(0, min(barLen, inner))
	if barLen == pw.lastBarLen {
		return
	}

	_, _ = fmt.Fprintf(pw.out, "\r[%s%s]", strings.Repeat("=", barLen), strings.Repeat(" ", inner-barLen))
	pw.lastBarLen = barLen
}

func (pw *ProgressWriter) printLine() {
	if pw.Total > 0 {
		pct := float64(pw.Current) * 100 / float64(pw.Total)
		_, _ = fmt.Fprintf(pw.out, "  progress: %.1f%% (%d/%d bytes)\n", pct, pw.Current, pw.Total)
		return
	}

	_, _ = fmt.Fprintf(pw.out, "  progress: %d bytes\n", pw.Current)
}
