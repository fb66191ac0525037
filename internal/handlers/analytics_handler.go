package handlers

import (
	"net/http"

	"github.com/lunahealth/luna/internal/services/analytics"
	"github.com/ternarybob/arbor"
)

// AnalyticsHandler serves correlation, trend and pattern endpoints
type AnalyticsHandler struct {
	analytics *analytics.Service
	logger    arbor.ILogger
}

// NewAnalyticsHandler creates an analytics handler
func NewAnalyticsHandler(analyticsService *analytics.Service, logger arbor.ILogger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analytics: analyticsService,
		logger:    logger,
	}
}

// HandleCorrelation reports symptom activity per cycle phase.
// GET /api/analytics/correlation?months=3
func (h *AnalyticsHandler) HandleCorrelation(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	months := QueryInt(r, "months", 0)
	report, err := h.analytics.CycleCorrelation(months)
	if err != nil {
		h.logger.Error().Err(err).Msg("Correlation analysis failed")
		WriteError(w, http.StatusInternalServerError, "Correlation analysis failed: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// HandleTrends reports per-type intensity trends.
// GET /api/analytics/trends?type=cramps&days=90
func (h *AnalyticsHandler) HandleTrends(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symptomType := r.URL.Query().Get("type")
	days := QueryInt(r, "days", 0)

	report, err := h.analytics.SymptomTrends(symptomType, days)
	if err != nil {
		h.logger.Error().Err(err).Msg("Trend analysis failed")
		WriteError(w, http.StatusInternalServerError, "Trend analysis failed: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, report)
}

// HandlePatterns reports recurring patterns.
// GET /api/analytics/patterns?min_occurrences=2
func (h *AnalyticsHandler) HandlePatterns(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	minOccurrences := QueryInt(r, "min_occurrences", 0)
	report, err := h.analytics.RecurringPatterns(minOccurrences)
	if err != nil {
		h.logger.Error().Err(err).Msg("Pattern analysis failed")
		WriteError(w, http.StatusInternalServerError, "Pattern analysis failed: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, report)
}
