// Package scoring holds the session scoring policy: a pure reducer from
// (State, TapResult) to the next State.
package scoring

import (
	"fmt"

	"github.com/okian/velocity/internal/domain/model"
)

// Reference policy constants.
const (
	defaultBaseTempo      = 60
	defaultTempoCap       = 90
	defaultTempoStep      = 5
	defaultStreakPerTempo = 10
	defaultStreakPerMult  = 5
	defaultMaxMultiplier  = 8
	defaultPerfectPoints  = 100
	defaultGoodPoints     = 50
	minMultiplier         = 1
)

// Policy configures the reducer. The zero value is not usable; start from
// DefaultPolicy or NewPolicy.
type Policy struct {
	BaseTempo      float64
	TempoCap       float64
	TempoStep      float64
	StreakPerTempo int // streak length per tempo raise
	StreakPerMult  int // streak length per multiplier step
	MaxMultiplier  int
	PerfectPoints  int
	GoodPoints     int
}

// Option applies a configuration option to a Policy.
type Option func(*Policy)

// WithTempo sets the base tempo, the cap and the per-milestone step.
func WithTempo(base, limit, step float64) Option {
	return func(p *Policy) {
		p.BaseTempo = base
		p.TempoCap = limit
		p.TempoStep = step
	}
}

// WithStreakSteps sets how many consecutive hits raise the tempo and the multiplier.
func WithStreakSteps(perTempo, perMultiplier int) Option {
	return func(p *Policy) {
		p.StreakPerTempo = perTempo
		p.StreakPerMult = perMultiplier
	}
}

// WithMaxMultiplier caps the score multiplier.
func WithMaxMultiplier(limit int) Option {
	return func(p *Policy) {
		p.MaxMultiplier = limit
	}
}

// WithPoints sets the base points awarded per tier.
func WithPoints(perfect, good int) Option {
	return func(p *Policy) {
		p.PerfectPoints = perfect
		p.GoodPoints = good
	}
}

// DefaultPolicy returns the reference policy.
func DefaultPolicy() Policy {
	return Policy{
		BaseTempo:      defaultBaseTempo,
		TempoCap:       defaultTempoCap,
		TempoStep:      defaultTempoStep,
		StreakPerTempo: defaultStreakPerTempo,
		StreakPerMult:  defaultStreakPerMult,
		MaxMultiplier:  defaultMaxMultiplier,
		PerfectPoints:  defaultPerfectPoints,
		GoodPoints:     defaultGoodPoints,
	}
}

// NewPolicy builds a validated policy from the defaults and options.
func NewPolicy(opts ...Option) (Policy, error) {
	p := DefaultPolicy()
	for _, opt := range opts {
		opt(&p)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate rejects policies the reducer cannot run.
func (p Policy) Validate() error {
	switch {
	case p.BaseTempo <= 0:
		return fmt.Errorf("%w: base tempo %v must be positive", ErrInvalidPolicy, p.BaseTempo)
	case p.TempoCap < p.BaseTempo:
		return fmt.Errorf("%w: tempo cap %v below base tempo %v", ErrInvalidPolicy, p.TempoCap, p.BaseTempo)
	case p.TempoStep < 0:
		return fmt.Errorf("%w: tempo step %v is negative", ErrInvalidPolicy, p.TempoStep)
	case p.StreakPerTempo < 1 || p.StreakPerMult < 1:
		return fmt.Errorf("%w: streak steps must be at least 1", ErrInvalidPolicy)
	case p.MaxMultiplier < minMultiplier:
		return fmt.Errorf("%w: max multiplier %d below %d", ErrInvalidPolicy, p.MaxMultiplier, minMultiplier)
	case p.PerfectPoints < 0 || p.GoodPoints < 0:
		return fmt.Errorf("%w: points must not be negative", ErrInvalidPolicy)
	}
	return nil
}

// State is the per-session scoring state.
type State struct {
	Streak       int     `json:"streak"`
	BestStreak   int     `json:"best_streak"`
	Score        int     `json:"score"`
	Multiplier   int     `json:"multiplier"`
	Tempo        float64 `json:"tempo"`
	HighScore    int     `json:"high_score"`     // persisted record at session start
	NewHighScore bool    `json:"new_high_score"` // latched once Score passes HighScore
	Perfects     int     `json:"perfects"`
	Goods        int     `json:"goods"`
	Misses       int     `json:"misses"`
}

// Initial returns the state at game start against a persisted high score.
func (p Policy) Initial(highScore int) State {
	return State{
		Multiplier: minMultiplier,
		Tempo:      p.BaseTempo,
		HighScore:  highScore,
	}
}

// Multiplier returns the multiplier for a streak. It is derived from the
// streak alone, so a rebuilt streak recovers the multiplier.
func (p Policy) Multiplier(streak int) int {
	return min(streak/p.StreakPerMult+minMultiplier, p.MaxMultiplier)
}

// Points returns the base points for a tier.
func (p Policy) Points(r model.TapResult) int {
	switch r {
	case model.Perfect:
		return p.PerfectPoints
	case model.Good:
		return p.GoodPoints
	default:
		return 0
	}
}

// TempoFor returns the tempo reached at a streak milestone.
func (p Policy) TempoFor(streak int) float64 {
	return min(p.BaseTempo+float64(streak/p.StreakPerTempo)*p.TempoStep, p.TempoCap)
}

// Reduce applies one judged tap. The input state is not modified.
func (p Policy) Reduce(s State, r model.TapResult) State {
	switch r {
	case model.Perfect, model.Good:
		if r == model.Perfect {
			s.Perfects++
		} else {
			s.Goods++
		}
		s.Streak++
		s.BestStreak = max(s.BestStreak, s.Streak)
		s.Multiplier = p.Multiplier(s.Streak)
		s.Score += p.Points(r) * s.Multiplier
		if s.Streak%p.StreakPerTempo == 0 {
			s.Tempo = p.TempoFor(s.Streak)
		}
	default:
		s.Misses++
		s.Streak = 0
		s.Multiplier = minMultiplier
		s.Tempo = p.BaseTempo
	}

	if !s.NewHighScore && s.Score > s.HighScore {
		s.NewHighScore = true
	}
	return s
}
