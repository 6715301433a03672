package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/velocity/pkg/metrics"
)

// HealthHandler handles health and metrics requests.
type HealthHandler struct {
	session SnapshotProvider
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(session SnapshotProvider) *HealthHandler {
	return &HealthHandler{
		session: session,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

type healthResponse struct {
	Status  string `json:"status"`
	Session string `json:"session"`
}

// HandleHealth handles GET /healthz requests.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r, "api.healthz") {
		return
	}
	resp := healthResponse{Status: "ok"}
	if h.session != nil {
		resp.Session = h.session.Snapshot().Status
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleMetrics serves the Prometheus registry.
func (h *HealthHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
