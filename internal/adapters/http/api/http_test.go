package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/velocity/internal/adapters/http/api"
	"github.com/okian/velocity/internal/domain/model"
	"github.com/okian/velocity/internal/domain/scoring"
	"github.com/okian/velocity/internal/domain/types"
	"github.com/okian/velocity/pkg/metrics"
	. "github.com/smartystreets/goconvey/convey"
)

type mockSession struct {
	snap types.Snapshot
}

func (m *mockSession) Snapshot() types.Snapshot { return m.snap }

type mockStats struct {
	stats model.Stats
}

func (m *mockStats) Load(context.Context) model.Stats { return m.stats }

func newMux(session api.SnapshotProvider, stats api.StatsLoader) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(session, stats).Register(context.Background(), mux)
	return mux
}

func TestHealth(t *testing.T) {
	Convey("Given the API with an idle session", t, func() {
		mux := newMux(&mockSession{snap: types.Snapshot{Status: types.StatusIdle}}, &mockStats{})

		Convey("When GET /healthz is called", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			Convey("Then it reports ok and the session status", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldStartWith, "application/json")

				var body map[string]string
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body["status"], ShouldEqual, "ok")
				So(body["session"], ShouldEqual, "idle")
			})
		})

		Convey("When POST /healthz is called", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))

			Convey("Then it is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(rec.Header().Get("Allow"), ShouldEqual, "GET, HEAD")
				So(rec.Body.String(), ShouldContainSubstring, "method_not_allowed")
			})
		})

		Convey("When GET /metrics is called after a beat", func() {
			metrics.RecordBeat()
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

			Convey("Then the Prometheus registry is served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "velocity_core_beats_total")
			})
		})
	})
}

func TestStats(t *testing.T) {
	Convey("Given the API with a running session", t, func() {
		state := scoring.DefaultPolicy().Initial(500)
		state.Score = 250
		state.Streak = 3
		session := &mockSession{snap: types.Snapshot{
			SessionID:  "s-1",
			Status:     types.StatusPlaying,
			State:      state,
			Beats:      7,
			LastResult: "perfect",
		}}
		stats := &mockStats{stats: model.Stats{HighScore: 500, BestStreak: 11, TotalGames: 4, TotalPerfects: 90}}
		mux := newMux(session, stats)

		Convey("When GET /stats is called", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

			Convey("Then the live snapshot is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var snap types.Snapshot
				So(json.Unmarshal(rec.Body.Bytes(), &snap), ShouldBeNil)
				So(snap.SessionID, ShouldEqual, "s-1")
				So(snap.State.Score, ShouldEqual, 250)
				So(snap.State.Streak, ShouldEqual, 3)
				So(snap.Beats, ShouldEqual, 7)
				So(snap.LastResult, ShouldEqual, "perfect")
			})
		})

		Convey("When GET /stats/lifetime is called", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats/lifetime", nil))

			Convey("Then the persisted stats are returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)

				var got model.Stats
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldResemble, stats.stats)
				So(strings.Contains(rec.Body.String(), `"total_perfects":90`), ShouldBeTrue)
			})
		})

		Convey("When DELETE /stats is called", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/stats", nil))

			Convey("Then it is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})

	Convey("Given the API without collaborators", t, func() {
		mux := newMux(nil, nil)

		Convey("When stats are requested", func() {
			for _, path := range []string{"/stats", "/stats/lifetime"} {
				rec := httptest.NewRecorder()
				mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

				So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(rec.Body.String(), ShouldContainSubstring, "unavailable")
			}
		})

		Convey("When health is requested", func() {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
			So(rec.Code, ShouldEqual, http.StatusOK)
		})
	})
}

func TestKindErrors(t *testing.T) {
	Convey("Given kind errors", t, func() {
		cause := errors.New("boom")

		Convey("When a kind is raised", func() {
			err := api.NewKind("api.op", api.ErrUnavailable)

			Convey("Then it matches the kind and names the op", func() {
				So(errors.Is(err, api.ErrUnavailable), ShouldBeTrue)
				So(err.Error(), ShouldEqual, "api.op: unavailable")
			})
		})

		Convey("When a cause is wrapped", func() {
			err := api.WrapKind("api.op", api.ErrMethodNotAllowed, cause)

			Convey("Then it matches both kind and cause", func() {
				So(errors.Is(err, api.ErrMethodNotAllowed), ShouldBeTrue)
				So(errors.Is(err, cause), ShouldBeTrue)
				So(err.Error(), ShouldEqual, "api.op: method not allowed: boom")

				var kind *api.KindError
				So(errors.As(err, &kind), ShouldBeTrue)
				So(kind.Op, ShouldEqual, "api.op")
			})
		})
	})
}
