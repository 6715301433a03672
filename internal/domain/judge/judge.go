// Package judge maps a tap against a target beat to a quality tier.
package judge

import (
	"fmt"
	"time"

	"github.com/okian/velocity/internal/domain/model"
)

// Default tolerance windows.
const (
	DefaultPerfectWindow = 50 * time.Millisecond
	DefaultGoodWindow    = 120 * time.Millisecond
)

// Windows holds the maximum absolute offset accepted for each tier.
// Both bounds are inclusive.
type Windows struct {
	Perfect time.Duration
	Good    time.Duration
}

// DefaultWindows returns the reference tolerance windows.
func DefaultWindows() Windows {
	return Windows{Perfect: DefaultPerfectWindow, Good: DefaultGoodWindow}
}

// Validate checks that the windows are non-negative and nested.
func (w Windows) Validate() error {
	switch {
	case w.Perfect < 0:
		return fmt.Errorf("%w: perfect window %v is negative", ErrInvalidWindows, w.Perfect)
	case w.Good < 0:
		return fmt.Errorf("%w: good window %v is negative", ErrInvalidWindows, w.Good)
	case w.Perfect > w.Good:
		return fmt.Errorf("%w: perfect window %v exceeds good window %v", ErrInvalidWindows, w.Perfect, w.Good)
	}
	return nil
}

// Option applies a configuration option to the Judge.
type Option func(*Judge)

// WithWindows replaces both windows.
func WithWindows(w Windows) Option {
	return func(j *Judge) {
		j.windows = w
	}
}

// WithPerfectWindow sets the perfect tolerance.
func WithPerfectWindow(d time.Duration) Option {
	return func(j *Judge) {
		j.windows.Perfect = d
	}
}

// WithGoodWindow sets the good tolerance.
func WithGoodWindow(d time.Duration) Option {
	return func(j *Judge) {
		j.windows.Good = d
	}
}

// Judge evaluates taps. It is immutable after construction.
type Judge struct {
	windows Windows
}

// New builds a Judge, rejecting windows that are negative or not nested.
func New(opts ...Option) (*Judge, error) {
	j := &Judge{windows: DefaultWindows()}
	for _, opt := range opts {
		opt(j)
	}
	if err := j.windows.Validate(); err != nil {
		return nil, err
	}
	return j, nil
}

// Windows returns the configured tolerance windows.
func (j *Judge) Windows() Windows { return j.windows }

// Evaluate classifies a tap against a beat. Ties on a window boundary go
// to the tighter tier, and the result is symmetric in its arguments.
func (j *Judge) Evaluate(tapTime, beatTime time.Time) model.TapResult {
	return Evaluate(j.windows, tapTime, beatTime)
}

// Evaluate classifies a tap against a beat using the given windows.
func Evaluate(w Windows, tapTime, beatTime time.Time) model.TapResult {
	// Sub saturates at the Duration bounds; negating math.MinInt64 overflows.
	var delta time.Duration
	if tapTime.Before(beatTime) {
		delta = beatTime.Sub(tapTime)
	} else {
		delta = tapTime.Sub(beatTime)
	}
	switch {
	case delta <= w.Perfect:
		return model.Perfect
	case delta <= w.Good:
		return model.Good
	default:
		return model.Miss
	}
}

// Offset returns tap minus beat: negative when early, positive when late.
func Offset(tapTime, beatTime time.Time) time.Duration {
	return tapTime.Sub(beatTime)
}
