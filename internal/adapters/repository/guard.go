package repository

import (
	"context"
	"time"

	"github.com/okian/velocity/internal/domain/model"
	"github.com/okian/velocity/pkg/logger"
	"github.com/okian/velocity/pkg/metrics"
)

const defaultGuardTimeout = 2 * time.Second

// Store operation names used in logs and metrics.
const (
	OpLoad              = "load"
	OpUpdateHighScore   = "update_high_score"
	OpUpdateBestStreak  = "update_best_streak"
	OpIncrementPerfects = "increment_perfects"
	OpIncrementGames    = "increment_games"
)

// Guard adapts a Store to the session's stats port. Store failures are
// logged and counted, never returned.
type Guard struct {
	store   Store
	logger  logger.Logger
	timeout time.Duration
}

// NewGuard wraps store.
func NewGuard(store Store, opts ...GuardOption) *Guard {
	g := &Guard{
		store:   store,
		logger:  logger.Nop(),
		timeout: defaultGuardTimeout,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Load returns the stored stats, or zero stats when they cannot be read.
func (g *Guard) Load(ctx context.Context) model.Stats {
	var st model.Stats
	g.run(ctx, OpLoad, func(ctx context.Context) error {
		var err error
		st, err = g.store.Load(ctx)
		if err != nil {
			st = model.Stats{}
		}
		return err
	})
	return st
}

// SaveHighScore records score when it beats the stored record.
func (g *Guard) SaveHighScore(ctx context.Context, score int) {
	g.run(ctx, OpUpdateHighScore, func(ctx context.Context) error {
		updated, err := g.store.UpdateHighScore(ctx, score)
		if err == nil && updated {
			g.logger.Debug(ctx, "high score stored", logger.Int("score", score))
		}
		return err
	})
}

// SaveBestStreak records streak when it beats the stored record.
func (g *Guard) SaveBestStreak(ctx context.Context, streak int) {
	g.run(ctx, OpUpdateBestStreak, func(ctx context.Context) error {
		updated, err := g.store.UpdateBestStreak(ctx, streak)
		if err == nil && updated {
			g.logger.Debug(ctx, "best streak stored", logger.Int("streak", streak))
		}
		return err
	})
}

// IncrementPerfects adds n to the lifetime perfect count.
func (g *Guard) IncrementPerfects(ctx context.Context, n int) {
	g.run(ctx, OpIncrementPerfects, func(ctx context.Context) error {
		return g.store.IncrementPerfects(ctx, n)
	})
}

// IncrementGames adds one played game.
func (g *Guard) IncrementGames(ctx context.Context) {
	g.run(ctx, OpIncrementGames, func(ctx context.Context) error {
		return g.store.IncrementGames(ctx)
	})
}

func (g *Guard) run(ctx context.Context, op string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	metrics.RecordStoreLatency(op, float64(time.Since(start).Microseconds())/1000)
	if err != nil {
		metrics.RecordStoreError(op)
		g.logger.Error(ctx, "stats store operation failed",
			logger.String("op", op),
			logger.Error(err),
		)
	}
}
