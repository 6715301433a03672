package model_test

import (
	"testing"

	"github.com/okian/velocity/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestTapResult(t *testing.T) {
	Convey("Given the tap result tiers", t, func() {
		Convey("Then they print as lowercase names", func() {
			So(model.Perfect.String(), ShouldEqual, "perfect")
			So(model.Good.String(), ShouldEqual, "good")
			So(model.Miss.String(), ShouldEqual, "miss")
			So(model.TapResult(9).String(), ShouldEqual, "tapresult(9)")
		})

		Convey("Then only perfect and good are hits", func() {
			So(model.Perfect.Hit(), ShouldBeTrue)
			So(model.Good.Hit(), ShouldBeTrue)
			So(model.Miss.Hit(), ShouldBeFalse)
		})

		Convey("When parsing names", func() {
			for _, r := range []model.TapResult{model.Perfect, model.Good, model.Miss} {
				parsed, err := model.ParseTapResult(r.String())
				So(err, ShouldBeNil)
				So(parsed, ShouldEqual, r)
			}

			Convey("Then parsing is case-insensitive", func() {
				parsed, err := model.ParseTapResult(" GOOD ")
				So(err, ShouldBeNil)
				So(parsed, ShouldEqual, model.Good)
			})

			Convey("Then unknown names are rejected", func() {
				_, err := model.ParseTapResult("great")
				So(err, ShouldNotBeNil)
			})
		})

		Convey("When marshalling as text", func() {
			b, err := model.Perfect.MarshalText()
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "perfect")
		})
	})
}
