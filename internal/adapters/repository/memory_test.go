package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/velocity/internal/adapters/repository"
	"github.com/okian/velocity/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryStore(t *testing.T) {
	Convey("Given a seeded memory store", t, func() {
		ctx := context.Background()
		store := repository.NewMemoryStore(model.Stats{HighScore: 500, BestStreak: 8})

		Convey("When records are offered", func() {
			low, _ := store.UpdateHighScore(ctx, 400)
			high, _ := store.UpdateHighScore(ctx, 650)
			short, _ := store.UpdateBestStreak(ctx, 8)
			long, _ := store.UpdateBestStreak(ctx, 9)

			Convey("Then only higher values are kept", func() {
				So(low, ShouldBeFalse)
				So(high, ShouldBeTrue)
				So(short, ShouldBeFalse)
				So(long, ShouldBeTrue)

				st, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(st.HighScore, ShouldEqual, 650)
				So(st.BestStreak, ShouldEqual, 9)
			})
		})

		Convey("When counters are incremented and cleared", func() {
			So(store.IncrementGames(ctx), ShouldBeNil)
			So(store.IncrementPerfects(ctx, 3), ShouldBeNil)
			st, _ := store.Load(ctx)
			So(st.TotalGames, ShouldEqual, 1)
			So(st.TotalPerfects, ShouldEqual, 3)

			So(store.Clear(ctx), ShouldBeNil)

			Convey("Then everything is zero", func() {
				st, _ := store.Load(ctx)
				So(st, ShouldResemble, model.Stats{})
			})
		})

		Convey("When a negative count is given", func() {
			So(errors.Is(store.IncrementPerfects(ctx, -2), repository.ErrInvalidCount), ShouldBeTrue)
		})
	})
}
