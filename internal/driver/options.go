package driver

import (
	"time"

	"github.com/okian/velocity/pkg/logger"
)

// Option applies a configuration option to the Loop.
type Option func(*Loop)

// WithFrameInterval sets the polling period of the internal ticker.
func WithFrameInterval(d time.Duration) Option {
	return func(l *Loop) {
		if d > 0 {
			l.interval = d
		}
	}
}

// WithFrames replaces the internal ticker with an external frame source.
func WithFrames(frames <-chan time.Time) Option {
	return func(l *Loop) {
		l.frames = frames
	}
}

// OnBeat registers a hook called once per beat reported by Tick.
func OnBeat(h BeatHook) Option {
	return func(l *Loop) {
		l.onBeat = h
	}
}

// OnTap registers a hook called with every judged tap.
func OnTap(h TapHook) Option {
	return func(l *Loop) {
		l.onTap = h
	}
}

// OnFrame registers a hook called after every frame.
func OnFrame(h FrameHook) Option {
	return func(l *Loop) {
		l.onFrame = h
	}
}

// WithLogger sets a custom logger for the loop.
func WithLogger(l logger.Logger) Option {
	return func(lp *Loop) {
		if l != nil {
			lp.logger = l
		}
	}
}
