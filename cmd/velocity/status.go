package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/okian/velocity/internal/domain/model"
	"github.com/okian/velocity/internal/domain/scoring"
	"github.com/okian/velocity/internal/domain/types"
)

const (
	pulseWidth = 12
	flashFor   = 120 * time.Millisecond
)

// liveWriter redraws its buffered output in place on Flush.
type liveWriter interface {
	io.Writer
	Flush() error
}

// statusView draws the one-line game status. It is only used from the
// driver goroutine.
type statusView struct {
	out        liveWriter
	every      time.Duration
	drawn      time.Time
	flashUntil time.Time
	last       string
}

func newStatusView(out liveWriter, every time.Duration) *statusView {
	return &statusView{out: out, every: every}
}

func (v *statusView) beat(at time.Time) {
	v.flashUntil = at.Add(flashFor)
}

func (v *statusView) tapped(r model.TapResult) {
	v.last = r.String()
}

// render redraws at most once per interval.
func (v *statusView) render(now time.Time, snap types.Snapshot, phase float64) {
	if now.Sub(v.drawn) < v.every {
		return
	}
	v.drawn = now

	_, _ = fmt.Fprintln(v.out, formatStatus(snap, phase, now.Before(v.flashUntil), v.last))
	_ = v.out.Flush()
}

// formatStatus renders a snapshot as one status line.
func formatStatus(snap types.Snapshot, phase float64, flash bool, last string) string {
	filled := int(phase * pulseWidth)
	filled = max(0, min(filled, pulseWidth))
	marker := "o"
	if flash {
		marker = "*"
	}

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString(" [")
	b.WriteString(strings.Repeat("=", filled))
	b.WriteString(strings.Repeat(" ", pulseWidth-filled))
	b.WriteString("] ")
	fmt.Fprintf(&b, "%3.0f bpm  score %d  streak %d  x%d", snap.State.Tempo, snap.State.Score, snap.State.Streak, snap.State.Multiplier)
	if last != "" {
		b.WriteString("  ")
		b.WriteString(last)
	}
	if snap.State.NewHighScore {
		b.WriteString("  NEW HIGH SCORE")
	}
	return b.String()
}

// writeSummary prints the end-of-game results.
func writeSummary(w io.Writer, final scoring.State) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw)
	_, _ = fmt.Fprintf(tw, "score\t%d\n", final.Score)
	_, _ = fmt.Fprintf(tw, "best streak\t%d\n", final.BestStreak)
	_, _ = fmt.Fprintf(tw, "perfect / good / miss\t%d / %d / %d\n", final.Perfects, final.Goods, final.Misses)
	_, _ = fmt.Fprintf(tw, "final tempo\t%.0f bpm\n", final.Tempo)
	if final.NewHighScore {
		_, _ = fmt.Fprintf(tw, "new high score!\t(previous %d)\n", final.HighScore)
	}
	return tw.Flush()
}
