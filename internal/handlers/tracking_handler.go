package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/models"
	"github.com/lunahealth/luna/internal/services/report"
	"github.com/lunahealth/luna/internal/services/tracking"
	"github.com/ternarybob/arbor"
)

// TrackingHandler serves symptom and cycle logging endpoints
type TrackingHandler struct {
	tracking *tracking.Service
	report   interfaces.ReportService
	logger   arbor.ILogger
}

// NewTrackingHandler creates a tracking handler
func NewTrackingHandler(trackingService *tracking.Service, reportService interfaces.ReportService, logger arbor.ILogger) *TrackingHandler {
	return &TrackingHandler{
		tracking: trackingService,
		report:   reportService,
		logger:   logger,
	}
}

// HandleSymptoms lists or creates symptom entries.
// GET|POST /api/symptoms
func (h *TrackingHandler) HandleSymptoms(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		filter := interfaces.SymptomFilter{
			SymptomType: r.URL.Query().Get("type"),
			Limit:       QueryInt(r, "limit", 0),
		}
		if days := QueryInt(r, "days", 0); days > 0 {
			filter.Since = time.Now().AddDate(0, 0, -days)
		}
		entries, err := h.tracking.ListSymptoms(filter)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to list symptoms: "+err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"symptoms": entries,
			"count":    len(entries),
		})

	case http.MethodPost:
		var entry models.SymptomEntry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		saved, err := h.tracking.AddSymptom(&entry)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, saved)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleSymptomByID deletes a single symptom entry.
// DELETE /api/symptoms/{id}
func (h *TrackingHandler) HandleSymptomByID(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/symptoms/")
	if id == "" {
		WriteError(w, http.StatusBadRequest, "Symptom id is required")
		return
	}

	if err := h.tracking.DeleteSymptom(id); err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Symptom entry not found")
			return
		}
		WriteError(w, http.StatusInternalServerError, "Failed to delete symptom: "+err.Error())
		return
	}
	WriteSuccess(w, "Symptom entry deleted")
}

// HandleSymptomSummary aggregates symptoms over a window.
// GET /api/symptoms/summary?days=30
func (h *TrackingHandler) HandleSymptomSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := h.tracking.SymptomSummary(QueryInt(r, "days", 30))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to build summary: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

type closeCycleRequest struct {
	EndDate string `json:"end_date"`
}

// HandleCycles lists or creates cycle entries.
// GET|POST /api/cycles
func (h *TrackingHandler) HandleCycles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		cycles, err := h.tracking.ListCycles(QueryInt(r, "limit", 0))
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "Failed to list cycles: "+err.Error())
			return
		}
		WriteJSON(w, http.StatusOK, map[string]interface{}{
			"cycles": cycles,
			"count":  len(cycles),
		})

	case http.MethodPost:
		var entry models.CycleEntry
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			WriteError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		saved, err := h.tracking.AddCycle(&entry)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteJSON(w, http.StatusCreated, saved)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HandleCycleByID closes an open cycle.
// PUT /api/cycles/{id}/close
func (h *TrackingHandler) HandleCycleByID(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPut) {
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/cycles/")
	id := strings.TrimSuffix(path, "/close")
	if id == "" || id == path {
		WriteError(w, http.StatusBadRequest, "Expected /api/cycles/{id}/close")
		return
	}

	var req closeCycleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Field 'end_date' must be YYYY-MM-DD")
		return
	}

	entry, err := h.tracking.CloseCycle(id, endDate)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "Cycle entry not found")
			return
		}
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, entry)
}

// HandleCycleSummary aggregates completed cycles.
// GET /api/cycles/summary
func (h *TrackingHandler) HandleCycleSummary(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	summary, err := h.tracking.CycleSummary()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to build summary: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, summary)
}

// HandleTrackingReport renders both summaries as a PDF.
// GET /api/tracking/report?days=30
func (h *TrackingHandler) HandleTrackingReport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	symptoms, err := h.tracking.SymptomSummary(QueryInt(r, "days", 30))
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to build symptom summary: "+err.Error())
		return
	}
	cycles, err := h.tracking.CycleSummary()
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to build cycle summary: "+err.Error())
		return
	}

	pdf, err := h.report.ConvertMarkdownToPDF(report.TrackingMarkdown(symptoms, cycles), "Health Tracking Report")
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Report generation failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="tracking_report.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
