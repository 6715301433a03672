// Package simulate plays a session headlessly with a bot on a virtual clock.
package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/okian/velocity/internal/domain/model"
	"github.com/okian/velocity/internal/domain/scoring"
	"github.com/okian/velocity/internal/domain/types"
	"github.com/okian/velocity/pkg/logger"
)

// Game is the session surface the bot plays against.
type Game interface {
	Start(ctx context.Context, now time.Time) error
	Tick(ctx context.Context, now time.Time) (bool, error)
	Tap(ctx context.Context, now time.Time) (model.TapResult, error)
	End(ctx context.Context) (scoring.State, error)
	Snapshot() types.Snapshot
}

// Run plays cfg.Beats beats starting at start and ends the session. Each
// beat the bot taps once at the upcoming beat plus a random offset, then the
// clock is ticked past that beat. Time only moves forward.
func Run(ctx context.Context, game Game, start time.Time, cfg Config, opts ...Option) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}

	o := options{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	rng := rand.New(rand.NewSource(cfg.Seed)) //nolint:gosec // reproducible bot, not security sensitive
	log := o.logger

	if err := game.Start(ctx, start); err != nil {
		return Report{}, fmt.Errorf("start: %w", err)
	}

	report := Report{Seed: cfg.Seed}
	now := start
	for i := 0; i < cfg.Beats; i++ {
		if err := ctx.Err(); err != nil {
			return Report{}, err
		}

		target := game.Snapshot().NextBeat

		if rng.Float64() >= cfg.SkipRate {
			at := target.Add(cfg.Bias + time.Duration(rng.NormFloat64()*float64(cfg.Jitter)))
			if at.Before(now) {
				at = now
			}
			if _, err := game.Tap(ctx, at); err != nil {
				return Report{}, fmt.Errorf("tap %d: %w", i, err)
			}
			report.Taps++
			now = at
		} else {
			report.Skipped++
		}

		// A tempo change moves the upcoming beat.
		if next := game.Snapshot().NextBeat; next.After(now) {
			now = next
		}
		if _, err := game.Tick(ctx, now); err != nil {
			return Report{}, fmt.Errorf("tick %d: %w", i, err)
		}
	}

	snap := game.Snapshot()
	final, err := game.End(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("end: %w", err)
	}

	report.Beats = snap.Beats
	report.Elapsed = now.Sub(start)
	report.Final = final

	log.Info(ctx, "simulation finished",
		logger.Int64("beats", report.Beats),
		logger.Int("taps", report.Taps),
		logger.Int("score", final.Score),
		logger.Int("best_streak", final.BestStreak),
		logger.Float64("tempo", final.Tempo),
	)
	return report, nil
}
