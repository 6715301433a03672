// Package service provides the game session: it glues the beat clock, the
// tap judge and the scoring reducer together and drives the feedback and
// stats ports.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/velocity/internal/domain/beat"
	"github.com/okian/velocity/internal/domain/judge"
	"github.com/okian/velocity/internal/domain/model"
	"github.com/okian/velocity/internal/domain/scoring"
	"github.com/okian/velocity/internal/domain/types"
	"github.com/okian/velocity/pkg/logger"
	"github.com/okian/velocity/pkg/metrics"
)

// Session owns one game. Tick and Tap are expected from a single driver
// goroutine; the mutex only lets Snapshot readers observe a consistent view.
type Session struct {
	mu sync.RWMutex

	// Collaborators
	policy   scoring.Policy
	judge    *judge.Judge
	notifier Notifier
	stats    StatsStore
	logger   logger.Logger

	// Per-game state
	id        string
	clock     *beat.Clock
	state     scoring.State
	persisted model.Stats
	last      *model.TapResult
	status    string
}

// New constructs a Session with the reference policy and default windows.
func New(opts ...Option) (*Session, error) {
	s := &Session{
		policy:   scoring.DefaultPolicy(),
		notifier: nopNotifier{},
		stats:    nopStore{},
		status:   types.StatusIdle,
	}

	for _, opt := range opts {
		opt(s)
	}

	if err := s.policy.Validate(); err != nil {
		return nil, err
	}
	if s.judge == nil {
		j, err := judge.New()
		if err != nil {
			return nil, err
		}
		s.judge = j
	}
	if s.logger == nil {
		s.logger = logger.Nop()
	}

	return s, nil
}

// Start begins a new game at now. The persisted stats are read once and
// the played-games counter is bumped.
func (s *Session) Start(ctx context.Context, now time.Time) error {
	s.mu.Lock()
	if s.status == types.StatusPlaying || s.status == types.StatusStarting {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}

	clock, err := beat.NewClock(now, s.policy.BaseTempo)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("start session: %w", err)
	}
	// Claim the session before the store round trip so a concurrent Start
	// cannot load and count a second game.
	s.status = types.StatusStarting
	s.mu.Unlock()

	persisted := s.stats.Load(ctx)
	s.stats.IncrementGames(ctx)

	s.mu.Lock()
	s.id = uuid.NewString()
	s.clock = clock
	s.persisted = persisted
	s.state = s.policy.Initial(persisted.HighScore)
	s.last = nil
	s.status = types.StatusPlaying
	state, id := s.state, s.id
	s.mu.Unlock()

	metrics.RecordSessionStarted()
	metrics.UpdateSession(state.Tempo, state.Streak, state.Score, state.Multiplier)
	s.logger.Info(ctx, "session started",
		logger.String("session_id", id),
		logger.Float64("tempo", state.Tempo),
		logger.Int("high_score", persisted.HighScore),
		logger.Int("best_streak", persisted.BestStreak),
	)
	return nil
}

// Tick polls the beat clock and reports whether a beat occurred since the
// previous call. At most one beat is reported per call.
func (s *Session) Tick(ctx context.Context, now time.Time) (bool, error) {
	s.mu.Lock()
	if s.status != types.StatusPlaying {
		s.mu.Unlock()
		return false, ErrNotStarted
	}
	fired := s.clock.Update(now)
	s.mu.Unlock()

	if fired {
		metrics.RecordBeat()
	}
	return fired, nil
}

// Tap judges a tap against the upcoming beat, applies the result to the
// session and pushes exactly one feedback request.
func (s *Session) Tap(ctx context.Context, now time.Time) (model.TapResult, error) {
	s.mu.Lock()
	if s.status != types.StatusPlaying {
		s.mu.Unlock()
		return model.Miss, ErrNotStarted
	}

	beatAt := s.clock.NextBeatTime()
	result := s.judge.Evaluate(now, beatAt)
	offset := judge.Offset(now, beatAt)

	prev := s.state
	next := s.policy.Reduce(prev, result)
	if next.Tempo != prev.Tempo {
		if err := s.clock.SetTempo(next.Tempo); err != nil {
			s.mu.Unlock()
			return result, fmt.Errorf("apply tempo: %w", err)
		}
	}

	// The latch rises once per game, so the record is written once.
	crossed := next.NewHighScore && !prev.NewHighScore
	endedStreak := 0
	if result == model.Miss && prev.Streak > s.persisted.BestStreak {
		endedStreak = prev.Streak
		s.persisted.BestStreak = prev.Streak
	}

	s.state = next
	s.last = &result
	id := s.id
	s.mu.Unlock()

	s.notifier.Notify(ctx, result)
	if crossed {
		s.stats.SaveHighScore(ctx, next.Score)
		metrics.RecordHighScore()
		s.logger.Info(ctx, "new high score",
			logger.String("session_id", id),
			logger.Int("score", next.Score),
			logger.Int("previous", next.HighScore),
		)
	}
	if endedStreak > 0 {
		s.stats.SaveBestStreak(ctx, endedStreak)
	}

	metrics.RecordTap(result.String(), float64(offset)/float64(time.Millisecond))
	if next.Tempo != prev.Tempo {
		metrics.RecordTempoChange(next.Tempo)
	}
	metrics.UpdateSession(next.Tempo, next.Streak, next.Score, next.Multiplier)
	s.logger.Debug(ctx, "tap judged",
		logger.String("session_id", id),
		logger.String("result", result.String()),
		logger.Duration("offset", offset),
		logger.Int("streak", next.Streak),
		logger.Int("score", next.Score),
		logger.Float64("tempo", next.Tempo),
	)

	return result, nil
}

// End finishes the game and flushes the records the session still owes the
// stats store. It returns the final state.
func (s *Session) End(ctx context.Context) (scoring.State, error) {
	s.mu.Lock()
	if s.status != types.StatusPlaying {
		s.mu.Unlock()
		return scoring.State{}, ErrNotStarted
	}
	s.status = types.StatusEnded
	final := s.state
	id := s.id
	bestStreak := 0
	if final.Streak > s.persisted.BestStreak {
		bestStreak = final.Streak
		s.persisted.BestStreak = final.Streak
	}
	s.mu.Unlock()

	if bestStreak > 0 {
		s.stats.SaveBestStreak(ctx, bestStreak)
	}
	if final.Perfects > 0 {
		s.stats.IncrementPerfects(ctx, final.Perfects)
	}

	s.logger.Info(ctx, "session ended",
		logger.String("session_id", id),
		logger.Int("score", final.Score),
		logger.Int("best_streak", final.BestStreak),
		logger.Int("perfects", final.Perfects),
		logger.Int("goods", final.Goods),
		logger.Int("misses", final.Misses),
		logger.Bool("new_high_score", final.NewHighScore),
	)
	return final, nil
}

// Phase returns the position within the current beat in [0,1), or 0 when no
// game is running.
func (s *Session) Phase(now time.Time) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.clock == nil || s.status != types.StatusPlaying {
		return 0
	}
	return s.clock.Phase(now)
}

// State returns the current scoring state.
func (s *Session) State() scoring.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot returns a consistent view of the session.
func (s *Session) Snapshot() types.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := types.Snapshot{
		SessionID: s.id,
		Status:    s.status,
		State:     s.state,
		Stats:     s.persisted,
	}
	if s.clock != nil {
		snap.Beats = s.clock.BeatCount()
		snap.Interval = s.clock.Interval()
		if s.status == types.StatusPlaying {
			snap.NextBeat = s.clock.NextBeatTime()
		}
	}
	if s.last != nil {
		snap.LastResult = s.last.String()
	}
	return snap
}
