package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/docfold-labs/docfold/internal/ingestion"
	"github.com/docfold-labs/docfold/pkg/apierr"
)

type IngestionHandler struct {
	logger *slog.Logger
	engine *ingestion.Engine
}

func NewIngestionHandler(logger *slog.Logger, engine *ingestion.Engine) *IngestionHandler {
	return &IngestionHandler{logger: logger, engine: engine}
}

// Trigger creates a pending ingestion process and returns it immediately;
// the simulated run proceeds in the background.
func (h *IngestionHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type        string         `json:"type"`
		DocumentIDs []string       `json:"document_ids"`
		Description *string        `json:"description"`
		Parameters  map[string]any `json:"parameters"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRequestBody())
		return
	}

	if err := validateIngestionType(req.Type); err != nil {
		writeAPIError(w, h.logger, err)
		return
	}

	docIDs := make([]uuid.UUID, 0, len(req.DocumentIDs))
	for _, raw := range req.DocumentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeAPIError(w, h.logger, apierr.InvalidDocumentID())
			return
		}
		docIDs = append(docIDs, id)
	}

	process, err := h.engine.Trigger(r.Context(), ingestion.TriggerRequest{
		Type:        ingestion.Type(req.Type),
		DocumentIDs: docIDs,
		Description: req.Description,
		Parameters:  req.Parameters,
	})
	if err != nil {
		writeAPIError(w, h.logger, apierr.TriggerFailed(err))
		return
	}

	writeJSON(w, http.StatusCreated, process)
}

func (h *IngestionHandler) List(w http.ResponseWriter, r *http.Request) {
	processes, err := h.engine.ListProcesses(r.Context())
	if err != nil {
		writeAPIError(w, h.logger, apierr.ProcessListFailed(err))
		return
	}
	if processes == nil {
		processes = []ingestion.Process{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"processes": processes,
		"total":     len(processes),
	})
}

func (h *IngestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	processID, err := uuid.Parse(chi.URLParam(r, "processID"))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InvalidProcessID())
		return
	}

	process, err := h.engine.GetProcess(r.Context(), processID)
	if err != nil {
		if errors.Is(err, ingestion.ErrProcessNotFound) {
			writeAPIError(w, h.logger, apierr.ProcessNotFound())
		} else {
			writeAPIError(w, h.logger, apierr.InternalError(err))
		}
		return
	}

	writeJSON(w, http.StatusOK, process)
}

// Webhook accepts completion/failure notifications from an external
// processor. The contract is deliberately permissive: malformed payloads and
// unknown process ids are logged and acknowledged, never rejected.
func (h *IngestionHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var payload ingestion.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Warn("malformed webhook payload", slog.String("error", err.Error()))
		writeJSON(w, http.StatusOK, ingestion.WebhookAck{Message: "Webhook processed successfully"})
		return
	}

	ack := h.engine.HandleWebhook(r.Context(), payload)
	writeJSON(w, http.StatusOK, ack)
}
