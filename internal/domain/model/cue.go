package model

import "time"

// Haptic is the strength of a vibration pulse.
type Haptic int

// Haptic strengths.
const (
	HapticNone Haptic = iota
	HapticLight
	HapticMedium
)

// String returns the lowercase strength name.
func (h Haptic) String() string {
	switch h {
	case HapticNone:
		return "none"
	case HapticLight:
		return "light"
	case HapticMedium:
		return "medium"
	default:
		return "unknown"
	}
}

// Tone is a sine tone that glides linearly from From to To hertz over
// Duration. From == To is a steady tone.
type Tone struct {
	From     float64
	To       float64
	Duration time.Duration
}

// Cue is one feedback request: an optional haptic pulse plus a tone.
type Cue struct {
	Name     string
	Haptic   Haptic
	Tone     Tone
	Enqueued time.Time // set by the dispatcher, used for latency
}
