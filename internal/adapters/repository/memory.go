package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/okian/velocity/internal/domain/model"
)

// MemoryStore keeps the stats in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	stats model.Stats
}

// NewMemoryStore returns a store seeded with initial.
func NewMemoryStore(initial model.Stats) *MemoryStore {
	return &MemoryStore{stats: initial}
}

// Load returns the current stats.
func (m *MemoryStore) Load(_ context.Context) (model.Stats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats, nil
}

// UpdateHighScore stores score when it is higher than the current record.
func (m *MemoryStore) UpdateHighScore(_ context.Context, score int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if score <= m.stats.HighScore {
		return false, nil
	}
	m.stats.HighScore = score
	return true, nil
}

// UpdateBestStreak stores streak when it is longer than the current record.
func (m *MemoryStore) UpdateBestStreak(_ context.Context, streak int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if streak <= m.stats.BestStreak {
		return false, nil
	}
	m.stats.BestStreak = streak
	return true, nil
}

// IncrementPerfects adds n perfects to the lifetime total.
func (m *MemoryStore) IncrementPerfects(_ context.Context, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d perfects", ErrInvalidCount, n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.TotalPerfects += n
	return nil
}

// IncrementGames adds one played game.
func (m *MemoryStore) IncrementGames(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats.TotalGames++
	return nil
}

// Clear resets every stat to zero.
func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats = model.Stats{}
	return nil
}
