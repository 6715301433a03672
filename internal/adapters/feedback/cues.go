// Package feedback turns judged taps into audio and haptic cues and plays
// them off the game loop.
package feedback

import (
	"time"

	"github.com/okian/velocity/internal/domain/model"
)

// Cue names, also used as metric labels.
const (
	CuePerfect = "perfect"
	CueGood    = "good"
	CueMiss    = "miss"
	CueBeat    = "beat"
)

var cueTable = map[model.TapResult]model.Cue{
	model.Perfect: {
		Name:   CuePerfect,
		Haptic: model.HapticLight,
		Tone:   model.Tone{From: 880, To: 880, Duration: 100 * time.Millisecond},
	},
	model.Good: {
		Name:   CueGood,
		Haptic: model.HapticMedium,
		Tone:   model.Tone{From: 660, To: 660, Duration: 80 * time.Millisecond},
	},
	model.Miss: {
		Name:   CueMiss,
		Haptic: model.HapticNone,
		Tone:   model.Tone{From: 330, To: 220, Duration: 150 * time.Millisecond},
	},
}

// CueFor returns the fixed cue for a tap result. Unknown results get the
// miss cue.
func CueFor(r model.TapResult) model.Cue {
	if c, ok := cueTable[r]; ok {
		return c
	}
	return cueTable[model.Miss]
}

// BeatCue is the metronome tick.
func BeatCue() model.Cue {
	return model.Cue{
		Name:   CueBeat,
		Haptic: model.HapticNone,
		Tone:   model.Tone{From: 440, To: 440, Duration: 50 * time.Millisecond},
	}
}
