package api

import (
	"net/http"
)

// StatsHandler handles stats requests.
type StatsHandler struct {
	session SnapshotProvider
	stats   StatsLoader
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(session SnapshotProvider, stats StatsLoader) *StatsHandler {
	return &StatsHandler{session: session, stats: stats}
}

// HandleSession handles GET /stats requests with the live session snapshot.
func (h *StatsHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_stats"
	if !requireGet(w, r, op) {
		return
	}
	if h.session == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", NewKind(op, ErrUnavailable))
		return
	}
	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// HandleLifetime handles GET /stats/lifetime requests with the persisted stats.
func (h *StatsHandler) HandleLifetime(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_lifetime_stats"
	if !requireGet(w, r, op) {
		return
	}
	if h.stats == nil {
		writeError(w, http.StatusServiceUnavailable, "unavailable", NewKind(op, ErrUnavailable))
		return
	}
	writeJSON(w, http.StatusOK, h.stats.Load(r.Context()))
}
