// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// TapResult is the quality tier assigned to a single tap.
type TapResult int

// Tap quality tiers, best first.
const (
	Perfect TapResult = iota
	Good
	Miss
)

// String returns the lowercase name used in logs, metrics and JSON.
func (r TapResult) String() string {
	switch r {
	case Perfect:
		return "perfect"
	case Good:
		return "good"
	case Miss:
		return "miss"
	default:
		return fmt.Sprintf("tapresult(%d)", int(r))
	}
}

// Hit reports whether the tap keeps the streak alive.
func (r TapResult) Hit() bool {
	return r == Perfect || r == Good
}

// MarshalText implements encoding.TextMarshaler.
func (r TapResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ParseTapResult parses the output of TapResult.String.
func ParseTapResult(s string) (TapResult, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "perfect":
		return Perfect, nil
	case "good":
		return Good, nil
	case "miss":
		return Miss, nil
	}
	return Miss, fmt.Errorf("unknown tap result %q", s)
}

// Stats is the lifetime record kept by the stats store.
type Stats struct {
	HighScore     int `json:"high_score"`
	BestStreak    int `json:"best_streak"`
	TotalGames    int `json:"total_games"`
	TotalPerfects int `json:"total_perfects"`
}
