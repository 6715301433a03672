package simulate

import (
	"fmt"
	"time"
)

// Defaults for a simulated run.
const (
	DefaultBeats  = 100
	DefaultJitter = 40 * time.Millisecond
)

// Config holds configuration for a simulated run.
type Config struct {
	Beats    int           // Number of beats the bot plays through
	Jitter   time.Duration // Standard deviation of the tap offset
	Bias     time.Duration // Mean tap offset; negative taps early
	SkipRate float64       // Probability of letting a beat pass without a tap
	Seed     int64         // Random seed; equal seeds replay equal runs
}

// DefaultConfig returns a moderately sloppy bot.
func DefaultConfig() Config {
	return Config{
		Beats:  DefaultBeats,
		Jitter: DefaultJitter,
		Seed:   1,
	}
}

// Validate rejects configs the bot cannot play.
func (c Config) Validate() error {
	switch {
	case c.Beats <= 0:
		return fmt.Errorf("%w: beats must be positive", ErrInvalidConfig)
	case c.Jitter < 0:
		return fmt.Errorf("%w: jitter must not be negative", ErrInvalidConfig)
	case c.SkipRate < 0 || c.SkipRate > 1:
		return fmt.Errorf("%w: skip rate %v outside [0,1]", ErrInvalidConfig, c.SkipRate)
	}
	return nil
}
