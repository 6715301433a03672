package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/okian/velocity/internal/domain/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// SQLiteStore keeps the stats in a single-row SQLite table.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time

	mu     sync.RWMutex
	closed bool
}

// Open opens or creates the SQLite database at path and applies migrations.
func Open(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if path != MemoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create stats dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open stats db: %w", err)
	}
	// One connection keeps :memory: databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate stats db: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stats (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			high_score INTEGER NOT NULL DEFAULT 0,
			best_streak INTEGER NOT NULL DEFAULT 0,
			total_games INTEGER NOT NULL DEFAULT 0,
			total_perfects INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL
		);`,
		`INSERT OR IGNORE INTO stats (id, updated_at) VALUES (1, ?);`,
	}
	for i, stmt := range stmts {
		var args []any
		if i == 1 {
			args = append(args, s.stamp())
		}
		if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) stamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}

func (s *SQLiteStore) open() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Load returns the stored stats.
func (s *SQLiteStore) Load(ctx context.Context) (model.Stats, error) {
	if err := s.open(); err != nil {
		return model.Stats{}, err
	}

	var st model.Stats
	err := s.db.QueryRowContext(ctx,
		`SELECT high_score, best_streak, total_games, total_perfects FROM stats WHERE id = 1`,
	).Scan(&st.HighScore, &st.BestStreak, &st.TotalGames, &st.TotalPerfects)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Stats{}, ErrMissingStatRow
	}
	if err != nil {
		return model.Stats{}, fmt.Errorf("load stats: %w", err)
	}
	return st, nil
}

// UpdateHighScore stores score when it is higher than the current record.
func (s *SQLiteStore) UpdateHighScore(ctx context.Context, score int) (bool, error) {
	return s.raise(ctx, "high_score", score)
}

// UpdateBestStreak stores streak when it is longer than the current record.
func (s *SQLiteStore) UpdateBestStreak(ctx context.Context, streak int) (bool, error) {
	return s.raise(ctx, "best_streak", streak)
}

// raise sets column to value when value is strictly greater. column is one
// of a fixed set of identifiers, never user input.
func (s *SQLiteStore) raise(ctx context.Context, column string, value int) (bool, error) {
	if err := s.open(); err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE stats SET `+column+` = ?, updated_at = ? WHERE id = 1 AND `+column+` < ?`,
		value, s.stamp(), value,
	)
	if err != nil {
		return false, fmt.Errorf("update %s: %w", column, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update %s: %w", column, err)
	}
	return n > 0, nil
}

// IncrementPerfects adds n perfects to the lifetime total.
func (s *SQLiteStore) IncrementPerfects(ctx context.Context, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d perfects", ErrInvalidCount, n)
	}
	return s.add(ctx, "total_perfects", n)
}

// IncrementGames adds one played game.
func (s *SQLiteStore) IncrementGames(ctx context.Context) error {
	return s.add(ctx, "total_games", 1)
}

func (s *SQLiteStore) add(ctx context.Context, column string, n int) error {
	if err := s.open(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE stats SET `+column+` = `+column+` + ?, updated_at = ? WHERE id = 1`,
		n, s.stamp(),
	)
	if err != nil {
		return fmt.Errorf("increment %s: %w", column, err)
	}
	return nil
}

// Clear resets every stat to zero.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	if err := s.open(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`UPDATE stats SET high_score = 0, best_streak = 0, total_games = 0, total_perfects = 0, updated_at = ? WHERE id = 1`,
		s.stamp(),
	)
	if err != nil {
		return fmt.Errorf("clear stats: %w", err)
	}
	return nil
}

// UpdatedAt returns when the stats were last written.
func (s *SQLiteStore) UpdatedAt(ctx context.Context) (time.Time, error) {
	if err := s.open(); err != nil {
		return time.Time{}, err
	}

	var raw string
	if err := s.db.QueryRowContext(ctx, `SELECT updated_at FROM stats WHERE id = 1`).Scan(&raw); err != nil {
		return time.Time{}, fmt.Errorf("load updated_at: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse updated_at: %w", err)
	}
	return t, nil
}
