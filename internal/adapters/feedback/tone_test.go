package feedback_test

import (
	"math"
	"testing"
	"time"

	"github.com/faiface/beep"

	"github.com/okian/velocity/internal/adapters/feedback"
	"github.com/okian/velocity/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

// drain reads s to the end in small chunks.
func drain(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 256)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			return out
		}
	}
}

func TestToneStreamer(t *testing.T) {
	Convey("Given a 100ms tone at 8 kHz", t, func() {
		sr := beep.SampleRate(8000)
		tone := model.Tone{From: 880, To: 880, Duration: 100 * time.Millisecond}
		samples := drain(feedback.ToneStreamer(sr, tone, 0.5))

		Convey("Then it lasts exactly the tone duration", func() {
			So(len(samples), ShouldEqual, sr.N(100*time.Millisecond))
		})

		Convey("And it never exceeds the volume", func() {
			peak := 0.0
			for _, s := range samples {
				So(s[0], ShouldEqual, s[1])
				peak = math.Max(peak, math.Abs(s[0]))
			}
			So(peak, ShouldBeLessThanOrEqualTo, 0.5)
			So(peak, ShouldBeGreaterThan, 0.1)
		})

		Convey("And it decays towards silence", func() {
			tail := samples[len(samples)-10:]
			for _, s := range tail {
				So(math.Abs(s[0]), ShouldBeLessThan, 0.01)
			}
		})
	})

	Convey("Given a zero-length tone", t, func() {
		s := feedback.ToneStreamer(feedback.DefaultSampleRate, model.Tone{From: 440, To: 440}, 1)

		Convey("Then the stream is empty", func() {
			n, ok := s.Stream(make([][2]float64, 16))
			So(n, ShouldEqual, 0)
			So(ok, ShouldBeFalse)
		})
	})
}
