// Package config defines process configuration and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and the environment.
// - Errors wrap this package's sentinel kinds.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/velocity/internal/domain/judge"
	"github.com/okian/velocity/internal/domain/scoring"
)

// Playable tempo range in beats per minute.
const (
	MinTempo = 40
	MaxTempo = 240
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// HTTPEnabled starts the monitoring server during play.
	HTTPEnabled bool `koanf:"http_enabled"`
	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite stats database.
	DBPath string `koanf:"db_path"`
	// StoreTimeoutMS bounds each stats store call.
	StoreTimeoutMS int `koanf:"store_timeout_ms"`

	// Scoring policy.
	BaseTempo      float64 `koanf:"base_tempo"`
	TempoCap       float64 `koanf:"tempo_cap"`
	TempoStep      float64 `koanf:"tempo_step"`
	StreakPerTempo int     `koanf:"streak_per_tempo"`
	StreakPerMult  int     `koanf:"streak_per_multiplier"`
	MaxMultiplier  int     `koanf:"max_multiplier"`
	PerfectPoints  int     `koanf:"perfect_points"`
	GoodPoints     int     `koanf:"good_points"`

	// Tolerance windows around a beat.
	PerfectWindowMS int `koanf:"perfect_window_ms"`
	GoodWindowMS    int `koanf:"good_window_ms"`

	// FrameIntervalMS is the driver's polling period.
	FrameIntervalMS int `koanf:"frame_interval_ms"`

	// Feedback playback.
	FeedbackQueueSize int     `koanf:"feedback_queue_size"`
	FeedbackWorkers   int     `koanf:"feedback_workers"`
	AudioEnabled      bool    `koanf:"audio_enabled"`
	HapticsEnabled    bool    `koanf:"haptics_enabled"`
	Metronome         bool    `koanf:"metronome"`
	Volume            float64 `koanf:"volume"`
}

// New creates a Config with defaults.
func New() *Config {
	policy := scoring.DefaultPolicy()
	return &Config{
		LogLevel:          "info",
		Addr:              ":9080",
		DBPath:            DefaultDBPath(),
		StoreTimeoutMS:    2000,
		BaseTempo:         policy.BaseTempo,
		TempoCap:          policy.TempoCap,
		TempoStep:         policy.TempoStep,
		StreakPerTempo:    policy.StreakPerTempo,
		StreakPerMult:     policy.StreakPerMult,
		MaxMultiplier:     policy.MaxMultiplier,
		PerfectPoints:     policy.PerfectPoints,
		GoodPoints:        policy.GoodPoints,
		PerfectWindowMS:   int(judge.DefaultPerfectWindow / time.Millisecond),
		GoodWindowMS:      int(judge.DefaultGoodWindow / time.Millisecond),
		FrameIntervalMS:   16,
		FeedbackQueueSize: 32,
		FeedbackWorkers:   1,
		AudioEnabled:      true,
		HapticsEnabled:    true,
		Volume:            0.4,
	}
}

// Validate rejects configurations the game cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.BaseTempo < MinTempo || c.BaseTempo > MaxTempo:
		return fmt.Errorf("%w: base_tempo %v outside [%d,%d]", ErrInvalidConfig, c.BaseTempo, MinTempo, MaxTempo)
	case c.TempoCap < MinTempo || c.TempoCap > MaxTempo:
		return fmt.Errorf("%w: tempo_cap %v outside [%d,%d]", ErrInvalidConfig, c.TempoCap, MinTempo, MaxTempo)
	case c.FrameIntervalMS <= 0:
		return fmt.Errorf("%w: frame_interval_ms must be positive", ErrInvalidConfig)
	case c.FeedbackQueueSize <= 0 || c.FeedbackWorkers <= 0:
		return fmt.Errorf("%w: feedback queue size and workers must be positive", ErrInvalidConfig)
	case c.Volume < 0 || c.Volume > 1:
		return fmt.Errorf("%w: volume %v outside [0,1]", ErrInvalidConfig, c.Volume)
	case strings.TrimSpace(c.DBPath) == "":
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	case c.HTTPEnabled && strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Windows().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Policy returns the configured scoring policy.
func (c *Config) Policy() scoring.Policy {
	return scoring.Policy{
		BaseTempo:      c.BaseTempo,
		TempoCap:       c.TempoCap,
		TempoStep:      c.TempoStep,
		StreakPerTempo: c.StreakPerTempo,
		StreakPerMult:  c.StreakPerMult,
		MaxMultiplier:  c.MaxMultiplier,
		PerfectPoints:  c.PerfectPoints,
		GoodPoints:     c.GoodPoints,
	}
}

// Windows returns the configured tolerance windows.
func (c *Config) Windows() judge.Windows {
	return judge.Windows{
		Perfect: time.Duration(c.PerfectWindowMS) * time.Millisecond,
		Good:    time.Duration(c.GoodWindowMS) * time.Millisecond,
	}
}

// FrameInterval returns the driver's polling period.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMS) * time.Millisecond
}

// StoreTimeout returns the per-call stats store bound.
func (c *Config) StoreTimeout() time.Duration {
	return time.Duration(c.StoreTimeoutMS) * time.Millisecond
}
