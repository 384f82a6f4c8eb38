package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/career-coach/internal/a2ui"
	"github.com/jonathan/career-coach/internal/db"
)

type statsResponse struct {
	Stats   db.JobStats    `json:"stats"`
	Summary string         `json:"summary"`
	Chart   a2ui.Component `json:"chart"`
}

// handleStats returns aggregate job statistics
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := s.toolbox.Store().Stats(r.Context())
	s.jsonResponse(w, http.StatusOK, statsResponse{
		Stats:   stats,
		Summary: a2ui.StatsSummary(stats),
		Chart:   a2ui.StatsChart(stats),
	})
}

// handleGetJob returns a single job by ID
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		s.writeError(w, r, &ErrValidation{Field: "id", Message: "is required"})
		return
	}

	job := s.toolbox.Store().GetJobByID(r.Context(), id)
	if job == nil {
		s.writeError(w, r, &ErrJobNotFound{ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}
