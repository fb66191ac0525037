package server

import (
	"net/http"
	"strings"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Knowledge base
	mux.HandleFunc("/api/query", s.app.KnowledgeHandler.HandleQuery)               // POST
	mux.HandleFunc("/api/query/report", s.app.KnowledgeHandler.HandleQueryReport)  // POST
	mux.HandleFunc("/api/ingest", s.app.KnowledgeHandler.HandleIngest)             // POST
	mux.HandleFunc("/api/stats", s.app.KnowledgeHandler.HandleStats)               // GET
	mux.HandleFunc("/api/status", s.app.StatusHandler.HandleStatus)                // GET

	// Symptom tracking
	mux.HandleFunc("/api/symptoms", s.app.TrackingHandler.HandleSymptoms)               // GET (list), POST (create)
	mux.HandleFunc("/api/symptoms/summary", s.app.TrackingHandler.HandleSymptomSummary) // GET
	mux.HandleFunc("/api/symptoms/", s.app.TrackingHandler.HandleSymptomByID)           // DELETE /{id}

	// Cycle tracking
	mux.HandleFunc("/api/cycles", s.app.TrackingHandler.HandleCycles)               // GET (list), POST (create)
	mux.HandleFunc("/api/cycles/summary", s.app.TrackingHandler.HandleCycleSummary) // GET
	mux.HandleFunc("/api/cycles/", s.handleCycleRoutes)                             // PUT /{id}/close

	// Analytics
	mux.HandleFunc("/api/analytics/correlation", s.app.AnalyticsHandler.HandleCorrelation) // GET
	mux.HandleFunc("/api/analytics/trends", s.app.AnalyticsHandler.HandleTrends)           // GET
	mux.HandleFunc("/api/analytics/patterns", s.app.AnalyticsHandler.HandlePatterns)       // GET

	// Reporting
	mux.HandleFunc("/api/tracking/report", s.app.TrackingHandler.HandleTrackingReport) // GET

	return mux
}

// handleCycleRoutes dispatches /api/cycles/ subpaths, keeping the summary
// route out of the id-based handler.
func (s *Server) handleCycleRoutes(w http.ResponseWriter, r *http.Request) {
	if strings.HasSuffix(r.URL.Path, "/close") {
		s.app.TrackingHandler.HandleCycleByID(w, r)
		return
	}
	http.NotFound(w, r)
}
