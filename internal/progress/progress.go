// Package progress draws a single-line progress bar for multi-set runs.
package progress

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	barWidth      = 30
	redrawEvery   = 100 * time.Millisecond
	clearToEndSeq = "\033[K"
)

// Bar reports progress through a known number of steps. A disabled Bar
// writes nothing, so callers never need to branch on it.
type Bar struct {
	out        io.Writer
	enabled    bool
	message    string
	total      int
	done       int
	startTime  time.Time
	lastUpdate time.Time
	now        func() time.Time
}

// New creates a bar over total steps writing to out.
func New(out io.Writer, message string, total int, enabled bool) *Bar {
	return &Bar{
		out:     out,
		enabled: enabled && out != nil,
		message: message,
		total:   total,
		now:     time.Now,
	}
}

// Start prints the opening line.
func (b *Bar) Start() {
	b.startTime = b.now()
	if !b.enabled {
		return
	}
	fmt.Fprintf(b.out, "%s (%d)\n", b.message, b.total)
}

// Step marks one more step done; label names the step just finished.
func (b *Bar) Step(label string) {
	b.done++
	if !b.enabled {
		return
	}

	now := b.now()
	if now.Sub(b.lastUpdate) < redrawEvery && b.done < b.total {
		return
	}
	b.lastUpdate = now

	pct := 100.0
	if b.total > 0 {
		pct = float64(b.done) / float64(b.total) * 100
	}
	fmt.Fprintf(b.out, "\r[%s] %d/%d %s%s", bar(pct), b.done, b.total, label, clearToEndSeq)
}

// Done reports how many steps have completed.
func (b *Bar) Done() int { return b.done }

// Finish ends the line with a summary.
func (b *Bar) Finish() {
	if !b.enabled {
		return
	}
	fmt.Fprintf(b.out, "\r%s: %d/%d in %s%s\n", b.message, b.done, b.total, formatDuration(b.now().Sub(b.startTime)), clearToEndSeq)
}

func bar(pct float64) string {
	filled := int(pct / 100 * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	var sb strings.Builder
	for i := 0; i < barWidth; i++ {
		switch {
		case i < filled:
			sb.WriteString("█")
		case i == filled && pct < 100:
			sb.WriteString("▓")
		default:
			sb.WriteString("░")
		}
	}
	return sb.String()
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
	return fmt.Sprintf("%.1fh", d.Hours())
}
