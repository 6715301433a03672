package simulate

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/okian/velocity/internal/domain/scoring"
)

// Percentage scale for accuracy.
const percent = 100

// Report summarises a simulated run.
type Report struct {
	Seed    int64
	Beats   int64
	Taps    int
	Skipped int
	Elapsed time.Duration // virtual time played
	Final   scoring.State
}

// Accuracy returns the share of taps that hit, in percent.
func (r Report) Accuracy() float64 {
	if r.Taps == 0 {
		return 0
	}
	return float64(r.Final.Perfects+r.Final.Goods) / float64(r.Taps) * percent
}

// WriteTo prints the report as an aligned table.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	tw := tabwriter.NewWriter(cw, 0, 0, 2, ' ', 0)

	rows := []struct {
		name  string
		value any
	}{
		{"seed", r.Seed},
		{"beats", r.Beats},
		{"taps", r.Taps},
		{"skipped", r.Skipped},
		{"perfect", r.Final.Perfects},
		{"good", r.Final.Goods},
		{"miss", r.Final.Misses},
		{"accuracy", fmt.Sprintf("%.1f%%", r.Accuracy())},
		{"score", r.Final.Score},
		{"best streak", r.Final.BestStreak},
		{"final tempo", fmt.Sprintf("%.0f bpm", r.Final.Tempo)},
		{"new high score", r.Final.NewHighScore},
		{"elapsed", r.Elapsed.Round(time.Millisecond)},
	}
	for _, row := range rows {
		if _, err := fmt.Fprintf(tw, "%s\t%v\n", row.name, row.value); err != nil {
			return cw.n, err
		}
	}
	err := tw.Flush()
	return cw.n, err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
