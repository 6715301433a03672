// Package api exposes the running game over HTTP for monitoring.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/velocity/internal/domain/model"
	"github.com/okian/velocity/internal/domain/types"
)

// SnapshotProvider exposes the live session.
type SnapshotProvider interface {
	Snapshot() types.Snapshot
}

// StatsLoader exposes the persisted lifetime stats.
type StatsLoader interface {
	Load(ctx context.Context) model.Stats
}

// Server wires HTTP routes for the monitoring API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(session SnapshotProvider, stats StatsLoader) *Server {
	return &Server{
		healthHandler: NewHealthHandler(session),
		statsHandler:  NewStatsHandler(session, stats),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", MetricsMiddleware(s.healthHandler.HandleMetrics, "metrics"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleSession, "stats"))
	mux.HandleFunc("/stats/lifetime", MetricsMiddleware(s.statsHandler.HandleLifetime, "stats_lifetime"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// requireGet rejects anything but GET and HEAD.
func requireGet(w http.ResponseWriter, r *http.Request, op string) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set("Allow", "GET, HEAD")
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
	return false
}
