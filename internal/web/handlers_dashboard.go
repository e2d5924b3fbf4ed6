package web

import (
	"context"
	"net/http"
	"time"

	mw "github.com/cloudcollect/server/internal/web/middleware"
)

// handleDashboardStats returns aggregate collection figures for the
// company: account counts by status, balance totals, and total collected.
func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	companyID := mw.CompanyID(r.Context())

	stats, err := s.store.DashboardStatsFor(r.Context(), companyID)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, stats)
}

// handleHealth reports liveness, including database reachability.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.Ping(ctx); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, map[string]string{"status": "ok"})
}
