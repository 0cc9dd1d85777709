package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"shopmile/internal/model"
	"shopmile/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ShipmentHandler handles shipment batch HTTP requests.
type ShipmentHandler struct {
	service service.ShipmentService
	logger  zerolog.Logger
}

// NewShipmentHandler creates a new shipment handler.
func NewShipmentHandler(service service.ShipmentService, logger zerolog.Logger) *ShipmentHandler {
	return &ShipmentHandler{
		service: service,
		logger:  logger.With().Str("handler", "shipment").Logger(),
	}
}

// SetAutoShip handles PUT /api/shipments/auto-ship requests. The response
// carries per-order results; the call itself succeeds as long as the batch
// groups could be processed, even when individual orders fail.
func (h *ShipmentHandler) SetAutoShip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	var req model.AutoShipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if len(req.OrderIDs) == 0 {
		writeError(w, http.StatusBadRequest, "at least one order ID is required", h.logger)
		return
	}

	results, err := h.service.SetAutoShip(r.Context(), req.OrderIDs, req.Enabled)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to toggle auto-ship", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// SetBatchAutoShip handles PUT /api/shipments/batches/{id}/auto-ship requests.
func (h *ShipmentHandler) SetBatchAutoShip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	// Expecting path: /api/shipments/batches/{id}/auto-ship
	path := strings.TrimPrefix(r.URL.Path, "/api/shipments/batches/")
	idStr := strings.TrimSuffix(path, "/auto-ship")
	if idStr == "" || idStr == path {
		writeError(w, http.StatusBadRequest, "batch ID is required", h.logger)
		return
	}

	batchID, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid batch ID format", h.logger)
		return
	}

	var req model.BatchAutoShipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	if err := h.service.SetBatchAutoShip(r.Context(), batchID, req.Enabled); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"batchId": batchID,
		"enabled": req.Enabled,
	})
}
