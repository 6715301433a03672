package feedback

import (
	"math"

	"github.com/faiface/beep"

	"github.com/okian/velocity/internal/domain/model"
)

// DefaultSampleRate is used when no sample rate is configured.
const DefaultSampleRate = beep.SampleRate(44100)

// ToneStreamer synthesises t as a sine that glides from t.From to t.To with
// a linear decay, at the given peak volume in [0,1].
func ToneStreamer(sr beep.SampleRate, t model.Tone, volume float64) beep.Streamer {
	total := sr.N(t.Duration)
	pos := 0
	phase := 0.0

	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		if pos >= total {
			return 0, false
		}
		for i := range samples {
			if pos >= total {
				break
			}
			progress := float64(pos) / float64(total)
			freq := t.From + (t.To-t.From)*progress
			v := volume * (1 - progress) * math.Sin(phase)
			samples[i][0], samples[i][1] = v, v

			phase += 2 * math.Pi * freq / float64(sr)
			if phase > 2*math.Pi {
				phase -= 2 * math.Pi
			}
			pos++
			n++
		}
		return n, true
	})
}
