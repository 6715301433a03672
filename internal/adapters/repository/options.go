package repository

import (
	"time"

	"github.com/okian/velocity/pkg/logger"
)

// Option applies a configuration option to the SQLiteStore.
type Option func(*SQLiteStore)

// WithNow sets the clock used for the updated_at column.
func WithNow(now func() time.Time) Option {
	return func(s *SQLiteStore) {
		if now != nil {
			s.now = now
		}
	}
}

// GuardOption applies a configuration option to the Guard.
type GuardOption func(*Guard)

// WithGuardLogger sets the logger failures are reported to.
func WithGuardLogger(l logger.Logger) GuardOption {
	return func(g *Guard) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithTimeout bounds every store call.
func WithTimeout(d time.Duration) GuardOption {
	return func(g *Guard) {
		if d > 0 {
			g.timeout = d
		}
	}
}
