// Package types contains common types used across the application
package types

import (
	"time"

	"github.com/okian/velocity/internal/domain/model"
	"github.com/okian/velocity/internal/domain/scoring"
)

// Session lifecycle status values reported in a Snapshot.
const (
	StatusIdle     = "idle"
	StatusStarting = "starting"
	StatusPlaying  = "playing"
	StatusEnded    = "ended"
)

// Snapshot is a read-only view of a session for out-of-band readers.
type Snapshot struct {
	SessionID  string        `json:"session_id,omitempty"`
	Status     string        `json:"status"`
	State      scoring.State `json:"state"`
	Beats      int64         `json:"beats"`
	Interval   time.Duration `json:"interval_ns"`
	NextBeat   time.Time     `json:"next_beat,omitempty"`
	LastResult string        `json:"last_result,omitempty"`
	Stats      model.Stats   `json:"stats"` // persisted stats loaded at start
}

// Playing reports whether the snapshot belongs to an active session.
func (s Snapshot) Playing() bool {
	return s.Status == StatusPlaying
}
