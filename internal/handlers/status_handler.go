package handlers

import (
	"net/http"

	"github.com/lunahealth/luna/internal/common"
	"github.com/lunahealth/luna/internal/services/knowledge"
	"github.com/ternarybob/arbor"
)

// StatusHandler serves liveness and version information
type StatusHandler struct {
	knowledge *knowledge.Service
	logger    arbor.ILogger
}

// NewStatusHandler creates a status handler
func NewStatusHandler(knowledgeService *knowledge.Service, logger arbor.ILogger) *StatusHandler {
	return &StatusHandler{
		knowledge: knowledgeService,
		logger:    logger,
	}
}

// HandleStatus reports service health and knowledge base state.
// GET /api/status
func (h *StatusHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "ok",
		"version":         common.GetVersion(),
		"knowledge_state": h.knowledge.State(),
		"knowledge_ready": h.knowledge.IsReady(),
	})
}
