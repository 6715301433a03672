// Package driver runs the polling loop that feeds frames and taps into a
// game session from a single goroutine.
package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/velocity/internal/domain/model"
	"github.com/okian/velocity/pkg/logger"
)

// DefaultFrameInterval is roughly one display frame at 60Hz.
const DefaultFrameInterval = 16 * time.Millisecond

// Game is the part of a session the loop drives.
type Game interface {
	Tick(ctx context.Context, now time.Time) (bool, error)
	Tap(ctx context.Context, now time.Time) (model.TapResult, error)
}

// Hooks observe the loop. All hooks run on the loop goroutine and must not block.
type (
	BeatHook  func(ctx context.Context, at time.Time)
	TapHook   func(ctx context.Context, result model.TapResult, at time.Time)
	FrameHook func(ctx context.Context, now time.Time)
)

// Loop multiplexes frame ticks and taps onto a Game.
type Loop struct {
	game     Game
	taps     <-chan time.Time
	interval time.Duration
	frames   <-chan time.Time
	onBeat   BeatHook
	onTap    TapHook
	onFrame  FrameHook
	logger   logger.Logger
}

// New builds a loop for game. Each value received on taps is the instant
// the player tapped.
func New(game Game, taps <-chan time.Time, opts ...Option) *Loop {
	l := &Loop{
		game:     game,
		taps:     taps,
		interval: DefaultFrameInterval,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.logger == nil {
		l.logger = logger.Nop()
	}
	return l
}

// Run blocks until ctx is cancelled, the tap channel is closed or the game
// reports an error. Cancellation and a closed tap channel are not errors.
func (l *Loop) Run(ctx context.Context) error {
	frames := l.frames
	if frames == nil {
		ticker := time.NewTicker(l.interval)
		defer ticker.Stop()
		frames = ticker.C
	}

	l.logger.Debug(ctx, "driver loop started", logger.Duration("frame_interval", l.interval))
	defer l.logger.Debug(ctx, "driver loop stopped")

	for {
		select {
		case <-ctx.Done():
			return nil

		case now := <-frames:
			fired, err := l.game.Tick(ctx, now)
			if err != nil {
				return fmt.Errorf("tick: %w", err)
			}
			if fired && l.onBeat != nil {
				l.onBeat(ctx, now)
			}
			if l.onFrame != nil {
				l.onFrame(ctx, now)
			}

		case at, ok := <-l.taps:
			if !ok {
				return nil
			}
			result, err := l.game.Tap(ctx, at)
			if err != nil {
				return fmt.Errorf("tap: %w", err)
			}
			if l.onTap != nil {
				l.onTap(ctx, result, at)
			}
		}
	}
}
