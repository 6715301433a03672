package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/velocity/internal/adapters/repository"
	"github.com/okian/velocity/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestSQLiteStore(t *testing.T) {
	Convey("Given a fresh SQLite store", t, func() {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "nested", "stats.db")
		fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		store, err := repository.Open(ctx, path, repository.WithNow(func() time.Time { return fixed }))
		So(err, ShouldBeNil)
		Reset(func() { _ = store.Close() })

		Convey("When nothing has been written", func() {
			st, err := store.Load(ctx)

			Convey("Then the stats are zero", func() {
				So(err, ShouldBeNil)
				So(st, ShouldResemble, model.Stats{})
			})
		})

		Convey("When a high score is stored", func() {
			updated, err := store.UpdateHighScore(ctx, 700)
			So(err, ShouldBeNil)
			So(updated, ShouldBeTrue)

			Convey("Then a lower or equal score does not overwrite it", func() {
				for _, score := range []int{100, 700} {
					updated, err := store.UpdateHighScore(ctx, score)
					So(err, ShouldBeNil)
					So(updated, ShouldBeFalse)
				}
				st, _ := store.Load(ctx)
				So(st.HighScore, ShouldEqual, 700)
			})

			Convey("And a higher score does", func() {
				updated, err := store.UpdateHighScore(ctx, 900)
				So(err, ShouldBeNil)
				So(updated, ShouldBeTrue)
				st, _ := store.Load(ctx)
				So(st.HighScore, ShouldEqual, 900)
			})

			Convey("And the write time is recorded", func() {
				at, err := store.UpdatedAt(ctx)
				So(err, ShouldBeNil)
				So(at.Equal(fixed), ShouldBeTrue)
			})
		})

		Convey("When streaks, perfects and games are recorded", func() {
			_, err := store.UpdateBestStreak(ctx, 12)
			So(err, ShouldBeNil)
			_, err = store.UpdateBestStreak(ctx, 4)
			So(err, ShouldBeNil)
			So(store.IncrementPerfects(ctx, 5), ShouldBeNil)
			So(store.IncrementPerfects(ctx, 3), ShouldBeNil)
			So(store.IncrementGames(ctx), ShouldBeNil)
			So(store.IncrementGames(ctx), ShouldBeNil)

			Convey("Then the totals accumulate", func() {
				st, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(st, ShouldResemble, model.Stats{BestStreak: 12, TotalGames: 2, TotalPerfects: 8})
			})

			Convey("And Clear resets them", func() {
				So(store.Clear(ctx), ShouldBeNil)
				st, err := store.Load(ctx)
				So(err, ShouldBeNil)
				So(st, ShouldResemble, model.Stats{})
			})

			Convey("And they survive a reopen", func() {
				So(store.Close(), ShouldBeNil)
				reopened, err := repository.Open(ctx, path)
				So(err, ShouldBeNil)
				defer reopened.Close()

				st, err := reopened.Load(ctx)
				So(err, ShouldBeNil)
				So(st.BestStreak, ShouldEqual, 12)
				So(st.TotalPerfects, ShouldEqual, 8)
			})
		})

		Convey("When a negative perfect count is given", func() {
			err := store.IncrementPerfects(ctx, -1)

			Convey("Then it is rejected", func() {
				So(errors.Is(err, repository.ErrInvalidCount), ShouldBeTrue)
			})
		})

		Convey("When the store is closed", func() {
			So(store.Close(), ShouldBeNil)

			Convey("Then operations fail with ErrClosed", func() {
				_, err := store.Load(ctx)
				So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
				_, err = store.UpdateHighScore(ctx, 1)
				So(errors.Is(err, repository.ErrClosed), ShouldBeTrue)
				So(errors.Is(store.IncrementGames(ctx), repository.ErrClosed), ShouldBeTrue)
				So(store.Close(), ShouldBeNil)
			})
		})
	})

	Convey("Given an in-memory SQLite store", t, func() {
		ctx := context.Background()
		store, err := repository.Open(ctx, repository.MemoryPath)
		So(err, ShouldBeNil)
		defer store.Close()

		Convey("Then writes are visible to later reads", func() {
			So(store.IncrementGames(ctx), ShouldBeNil)
			st, err := store.Load(ctx)
			So(err, ShouldBeNil)
			So(st.TotalGames, ShouldEqual, 1)
		})
	})
}
