package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/jobtrack/internal/service"
)

// AnalyticsHandler serves the derived dashboard snapshot.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	logger    *slog.Logger
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(analytics *service.AnalyticsService, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analytics,
		logger:    logger,
	}
}

// HandleAnalytics computes and returns the caller's analytics snapshot.
//
// HTTP: GET /api/analytics
//
// The snapshot is recomputed from the current record set on every request —
// there is no cache to go stale, and the computation is a single pass over
// one user's applications.
func (h *AnalyticsHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	id, ok := caller(w, r)
	if !ok {
		return
	}

	snap, err := h.analytics.Snapshot(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// HandleHealth is the unauthenticated liveness probe.
//
// HTTP: GET /api/health
func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
