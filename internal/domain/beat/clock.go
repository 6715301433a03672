// Package beat implements the beat clock that turns frame polls into
// discrete beat events at a live-adjustable tempo.
package beat

import (
	"fmt"
	"math"
	"time"
)

// Clock tracks beats relative to a fixed start time.
//
// The clock is not safe for concurrent use; it is owned by a single session
// and driven from one goroutine.
type Clock struct {
	start    time.Time
	tempo    float64
	interval time.Duration
	index    int64 // beats that have already occurred
}

// Interval converts a tempo in beats per minute to the time between beats.
func Interval(tempo float64) time.Duration {
	return time.Duration(float64(time.Minute) / tempo)
}

// NewClock returns a clock whose first beat falls one interval after start.
func NewClock(start time.Time, tempo float64) (*Clock, error) {
	if err := validateTempo(tempo); err != nil {
		return nil, err
	}
	return &Clock{
		start:    start,
		tempo:    tempo,
		interval: Interval(tempo),
	}, nil
}

func validateTempo(tempo float64) error {
	if tempo <= 0 || math.IsNaN(tempo) || math.IsInf(tempo, 0) || Interval(tempo) <= 0 {
		return fmt.Errorf("%w: %v bpm", ErrInvalidTempo, tempo)
	}
	return nil
}

// Update reports whether now has reached the next beat. It advances by at
// most one beat per call: a stalled caller that skipped several boundaries
// sees them one poll at a time.
func (c *Clock) Update(now time.Time) bool {
	if now.Before(c.NextBeatTime()) {
		return false
	}
	c.index++
	return true
}

// NextBeatTime returns the instant of the next beat that has not occurred yet.
func (c *Clock) NextBeatTime() time.Time {
	return c.start.Add(c.interval * time.Duration(c.index+1))
}

// Phase returns how far now is through the current beat interval, in [0,1).
// It is derived from the start time and the current interval only.
func (c *Clock) Phase(now time.Time) float64 {
	r := now.Sub(c.start) % c.interval
	if r < 0 {
		r += c.interval
	}
	return float64(r) / float64(c.interval)
}

// SetTempo changes the interval used from the current beat index forward.
// Past beats are not rewritten, so the next beat target can jump.
func (c *Clock) SetTempo(tempo float64) error {
	if err := validateTempo(tempo); err != nil {
		return err
	}
	c.tempo = tempo
	c.interval = Interval(tempo)
	return nil
}

// Tempo returns the current tempo in beats per minute.
func (c *Clock) Tempo() float64 { return c.tempo }

// Interval returns the current time between beats.
func (c *Clock) Interval() time.Duration { return c.interval }

// BeatCount returns the number of beats that have occurred.
func (c *Clock) BeatCount() int64 { return c.index }

// Start returns the clock's reference time.
func (c *Clock) Start() time.Time { return c.start }
