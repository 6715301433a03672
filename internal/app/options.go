package service

import (
	"github.com/okian/velocity/internal/domain/judge"
	"github.com/okian/velocity/internal/domain/scoring"
	"github.com/okian/velocity/pkg/logger"
)

// Option applies a configuration option to the Session.
type Option func(*Session)

// WithLogger sets a custom logger for the session.
func WithLogger(l logger.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPolicy sets the scoring policy.
func WithPolicy(p scoring.Policy) Option {
	return func(s *Session) {
		s.policy = p
	}
}

// WithJudge sets the tap judge.
func WithJudge(j *judge.Judge) Option {
	return func(s *Session) {
		if j != nil {
			s.judge = j
		}
	}
}

// WithNotifier sets the feedback port.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithStatsStore sets the persisted-stats port.
func WithStatsStore(store StatsStore) Option {
	return func(s *Session) {
		if store != nil {
			s.stats = store
		}
	}
}
