package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/lunahealth/luna/internal/interfaces"
	"github.com/lunahealth/luna/internal/services/knowledge"
	"github.com/lunahealth/luna/internal/services/report"
	"github.com/ternarybob/arbor"
)

// KnowledgeHandler serves query, ingestion and statistics endpoints
type KnowledgeHandler struct {
	knowledge *knowledge.Service
	report    interfaces.ReportService
	logger    arbor.ILogger
}

// NewKnowledgeHandler creates a knowledge handler
func NewKnowledgeHandler(knowledgeService *knowledge.Service, reportService interfaces.ReportService, logger arbor.ILogger) *KnowledgeHandler {
	return &KnowledgeHandler{
		knowledge: knowledgeService,
		report:    reportService,
		logger:    logger,
	}
}

type queryRequest struct {
	Question string `json:"question"`
	TopK     int    `json:"top_k,omitempty"`
	Category string `json:"category,omitempty"`
}

// HandleQuery answers a question from the knowledge base.
// POST /api/query
func (h *KnowledgeHandler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Question == "" {
		WriteError(w, http.StatusBadRequest, "Field 'question' is required")
		return
	}

	answer, err := h.knowledge.Query(r.Context(), req.Question, interfaces.RetrieveOptions{
		TopK:           req.TopK,
		CategoryFilter: req.Category,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("question", req.Question).Msg("Query failed")
		WriteError(w, http.StatusInternalServerError, "Query failed: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, answer)
}

// HandleQueryReport answers a question and returns the answer as a PDF.
// POST /api/query/report
func (h *KnowledgeHandler) HandleQueryReport(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Question == "" {
		WriteError(w, http.StatusBadRequest, "Field 'question' is required")
		return
	}

	answer, err := h.knowledge.Query(r.Context(), req.Question, interfaces.RetrieveOptions{
		TopK:           req.TopK,
		CategoryFilter: req.Category,
	})
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Query failed: "+err.Error())
		return
	}

	pdf, err := h.report.ConvertMarkdownToPDF(report.AnswerMarkdown(answer), "Knowledge Report")
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Report generation failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="knowledge_report.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

type ingestRequest struct {
	Force bool `json:"force,omitempty"`
}

// HandleIngest starts a knowledge base build in the background.
// POST /api/ingest
func (h *KnowledgeHandler) HandleIngest(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req ingestRequest
	if r.Body != nil {
		// An empty body means a default (non-forced) build
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	// Detached context: the build outlives this request
	go func() {
		if err := h.knowledge.Build(context.Background(), req.Force); err != nil {
			h.logger.Error().Err(err).Msg("Background ingestion failed")
		}
	}()

	WriteStarted(w, "Knowledge base build started")
}

// HandleStats reports collection statistics.
// GET /api/stats
func (h *KnowledgeHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	stats, state, err := h.knowledge.Stats(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to read statistics: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"state": state,
		"stats": stats,
	})
}
