package beat_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/okian/velocity/internal/domain/beat"
	. "github.com/smartystreets/goconvey/convey"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewClock(t *testing.T) {
	Convey("Given a clock constructed at t0", t, func() {
		Convey("When the tempo divides a minute evenly", func() {
			cases := map[float64]time.Duration{
				60:  time.Second,
				120: 500 * time.Millisecond,
				75:  800 * time.Millisecond,
				48:  1250 * time.Millisecond,
				240: 250 * time.Millisecond,
				0.5: 2 * time.Minute,
			}

			Convey("Then the first beat is one interval after t0", func() {
				for tempo, interval := range cases {
					c, err := beat.NewClock(t0, tempo)
					So(err, ShouldBeNil)
					So(c.NextBeatTime(), ShouldEqual, t0.Add(interval))
					So(c.Interval(), ShouldEqual, interval)
					So(c.BeatCount(), ShouldEqual, 0)
					So(c.Tempo(), ShouldEqual, tempo)
					So(c.Start(), ShouldEqual, t0)
				}
			})
		})

		Convey("When the tempo is arbitrary", func() {
			Convey("Then the first beat is 60000/tempo ms after t0", func() {
				for _, tempo := range []float64{7, 41.5, 93, 133.33, 999} {
					c, err := beat.NewClock(t0, tempo)
					So(err, ShouldBeNil)
					want := 60000 / tempo * float64(time.Millisecond)
					got := float64(c.NextBeatTime().Sub(t0))
					So(got, ShouldAlmostEqual, want, 1)
				}
			})
		})

		Convey("When the tempo is not positive", func() {
			for _, tempo := range []float64{0, -60, math.NaN(), math.Inf(1)} {
				c, err := beat.NewClock(t0, tempo)

				So(c, ShouldBeNil)
				So(errors.Is(err, beat.ErrInvalidTempo), ShouldBeTrue)
			}
		})
	})
}

func TestClockUpdate(t *testing.T) {
	Convey("Given a 60 bpm clock started at t0", t, func() {
		c, err := beat.NewClock(t0, 60)
		So(err, ShouldBeNil)

		Convey("When polled before the first beat", func() {
			for _, d := range []time.Duration{0, time.Millisecond, 999 * time.Millisecond} {
				So(c.Update(t0.Add(d)), ShouldBeFalse)
			}

			Convey("Then no beat has occurred", func() {
				So(c.BeatCount(), ShouldEqual, 0)
				So(c.NextBeatTime(), ShouldEqual, t0.Add(time.Second))
			})
		})

		Convey("When polled exactly at the boundary", func() {
			So(c.Update(t0.Add(time.Second)), ShouldBeTrue)

			Convey("Then exactly one beat occurred and the next target moved", func() {
				So(c.BeatCount(), ShouldEqual, 1)
				So(c.NextBeatTime(), ShouldEqual, t0.Add(2*time.Second))
			})

			Convey("And polling again at the same instant reports nothing", func() {
				So(c.Update(t0.Add(time.Second)), ShouldBeFalse)
				So(c.BeatCount(), ShouldEqual, 1)
			})
		})

		Convey("When the driver stalls past several boundaries", func() {
			late := t0.Add(5500 * time.Millisecond)

			Convey("Then each call advances exactly one beat", func() {
				So(c.Update(late), ShouldBeTrue)
				So(c.BeatCount(), ShouldEqual, 1)
				So(c.Update(late), ShouldBeTrue)
				So(c.BeatCount(), ShouldEqual, 2)
				for i := 0; i < 3; i++ {
					So(c.Update(late), ShouldBeTrue)
				}
				So(c.BeatCount(), ShouldEqual, 5)
				So(c.Update(late), ShouldBeFalse)
				So(c.BeatCount(), ShouldEqual, 5)
			})
		})

		Convey("When polled every frame for ten seconds", func() {
			beats := 0
			for now := t0; now.Before(t0.Add(10 * time.Second)); now = now.Add(16 * time.Millisecond) {
				if c.Update(now) {
					beats++
				}
			}

			Convey("Then one beat is reported per second", func() {
				So(beats, ShouldEqual, 9)
				So(c.BeatCount(), ShouldEqual, 9)
			})
		})
	})
}

func TestClockSetTempo(t *testing.T) {
	Convey("Given a 60 bpm clock that has reported three beats", t, func() {
		c, err := beat.NewClock(t0, 60)
		So(err, ShouldBeNil)
		for i := 1; i <= 3; i++ {
			So(c.Update(t0.Add(time.Duration(i)*time.Second)), ShouldBeTrue)
		}

		Convey("When the tempo doubles", func() {
			So(c.SetTempo(120), ShouldBeNil)

			Convey("Then start and beat index are preserved and the interval applies from the current index", func() {
				So(c.BeatCount(), ShouldEqual, 3)
				So(c.Start(), ShouldEqual, t0)
				So(c.Interval(), ShouldEqual, 500*time.Millisecond)
				So(c.Tempo(), ShouldEqual, 120)
				// 4 beats × 500ms: the target jumps back from t0+4s to t0+2s.
				So(c.NextBeatTime(), ShouldEqual, t0.Add(2*time.Second))
			})
		})

		Convey("When the tempo is set to 65", func() {
			So(c.SetTempo(65), ShouldBeNil)

			Convey("Then the next beat uses the new interval", func() {
				So(c.NextBeatTime(), ShouldEqual, t0.Add(4*beat.Interval(65)))
			})
		})

		Convey("When the tempo is invalid", func() {
			err := c.SetTempo(0)

			Convey("Then it fails and nothing changes", func() {
				So(errors.Is(err, beat.ErrInvalidTempo), ShouldBeTrue)
				So(c.Tempo(), ShouldEqual, 60)
				So(c.NextBeatTime(), ShouldEqual, t0.Add(4*time.Second))
			})
		})
	})
}

func TestClockPhase(t *testing.T) {
	Convey("Given a 60 bpm clock", t, func() {
		c, err := beat.NewClock(t0, 60)
		So(err, ShouldBeNil)

		Convey("Then phase is the fraction through the current interval", func() {
			So(c.Phase(t0), ShouldEqual, 0)
			So(c.Phase(t0.Add(250*time.Millisecond)), ShouldEqual, 0.25)
			So(c.Phase(t0.Add(3500*time.Millisecond)), ShouldEqual, 0.5)
			So(c.Phase(t0.Add(4*time.Second)), ShouldEqual, 0)
		})

		Convey("Then times before the start still map into [0,1)", func() {
			p := c.Phase(t0.Add(-250 * time.Millisecond))
			So(p, ShouldEqual, 0.75)
		})

		Convey("Then phase does not mutate the clock", func() {
			c.Phase(t0.Add(10 * time.Second))
			So(c.BeatCount(), ShouldEqual, 0)
		})
	})
}
