package feedback

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"github.com/okian/velocity/internal/domain/model"
	"github.com/okian/velocity/pkg/logger"
)

const defaultVolume = 0.4

// Sink accepts a ready-to-play stream. Play must not block for the length
// of the stream.
type Sink interface {
	Play(s beep.Streamer)
}

// SpeakerSink plays through the system speaker. A new cue cuts off the one
// still sounding.
type SpeakerSink struct {
	mu   sync.Mutex
	ctrl *beep.Ctrl
}

// NewSpeakerSink initialises the speaker at sr.
func NewSpeakerSink(sr beep.SampleRate) (*SpeakerSink, error) {
	if err := speaker.Init(sr, sr.N(time.Second/30)); err != nil {
		return nil, fmt.Errorf("initialize speaker: %w", err)
	}
	return &SpeakerSink{}, nil
}

// Play starts s, silencing the previous cue.
func (s *SpeakerSink) Play(stream beep.Streamer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctrl != nil {
		speaker.Lock()
		s.ctrl.Streamer = nil
		speaker.Unlock()
	}
	s.ctrl = &beep.Ctrl{Streamer: stream}
	speaker.Play(s.ctrl)
}

// TonePlayer renders cues as synthesised tones plus haptic pulses.
type TonePlayer struct {
	sink       Sink
	haptics    Haptics
	sampleRate beep.SampleRate
	volume     float64
	logger     logger.Logger
}

// PlayerOption applies a configuration option to the TonePlayer.
type PlayerOption func(*TonePlayer)

// WithSink sets the audio output. Without one the player is silent.
func WithSink(s Sink) PlayerOption {
	return func(p *TonePlayer) {
		p.sink = s
	}
}

// WithHaptics sets the haptic output. Without one no pulses are sent.
func WithHaptics(h Haptics) PlayerOption {
	return func(p *TonePlayer) {
		p.haptics = h
	}
}

// WithSampleRate sets the synthesis sample rate.
func WithSampleRate(sr beep.SampleRate) PlayerOption {
	return func(p *TonePlayer) {
		if sr > 0 {
			p.sampleRate = sr
		}
	}
}

// WithVolume sets the peak volume in [0,1].
func WithVolume(v float64) PlayerOption {
	return func(p *TonePlayer) {
		if v >= 0 && v <= 1 {
			p.volume = v
		}
	}
}

// WithPlayerLogger sets the player's logger.
func WithPlayerLogger(l logger.Logger) PlayerOption {
	return func(p *TonePlayer) {
		if l != nil {
			p.logger = l
		}
	}
}

// NewTonePlayer builds a player from options.
func NewTonePlayer(opts ...PlayerOption) *TonePlayer {
	p := &TonePlayer{
		sampleRate: DefaultSampleRate,
		volume:     defaultVolume,
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SampleRate returns the synthesis sample rate.
func (p *TonePlayer) SampleRate() beep.SampleRate {
	return p.sampleRate
}

// Play sends the haptic pulse and starts the tone.
func (p *TonePlayer) Play(ctx context.Context, cue model.Cue) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if p.haptics != nil && cue.Haptic != model.HapticNone {
		if err := p.haptics.Pulse(ctx, cue.Haptic); err != nil {
			return fmt.Errorf("haptic %s: %w", cue.Haptic, err)
		}
	}

	if p.sink != nil && cue.Tone.Duration > 0 {
		p.sink.Play(ToneStreamer(p.sampleRate, cue.Tone, p.volume))
	}

	p.logger.Debug(ctx, "cue played",
		logger.String("cue", cue.Name),
		logger.Float64("from_hz", cue.Tone.From),
		logger.Float64("to_hz", cue.Tone.To),
		logger.Duration("duration", cue.Tone.Duration),
	)
	return nil
}
