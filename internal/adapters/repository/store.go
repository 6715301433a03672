// Package repository persists the lifetime game stats.
package repository

import (
	"context"

	"github.com/okian/velocity/internal/domain/model"
)

// Store provides read/write access to the persisted stats.
type Store interface {
	// Load returns the current stats. A fresh store returns zero stats.
	Load(ctx context.Context) (model.Stats, error)

	// UpdateHighScore records score if it beats the stored high score.
	// Returns true if the store updated the value.
	UpdateHighScore(ctx context.Context, score int) (bool, error)

	// UpdateBestStreak records streak if it beats the stored best streak.
	UpdateBestStreak(ctx context.Context, streak int) (bool, error)

	// IncrementPerfects adds n to the lifetime perfect count.
	IncrementPerfects(ctx context.Context, n int) error

	// IncrementGames adds one to the played-games count.
	IncrementGames(ctx context.Context) error

	// Clear resets every stat to zero.
	Clear(ctx context.Context) error
}
