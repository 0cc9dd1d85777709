package handler

import (
	"net/http"

	"shopmile/internal/model"
	"shopmile/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// NotificationHandler handles notification log HTTP requests.
type NotificationHandler struct {
	recorder service.NotificationRecorder
	logger   zerolog.Logger
}

// NewNotificationHandler creates a new notification log handler.
func NewNotificationHandler(recorder service.NotificationRecorder, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		recorder: recorder,
		logger:   logger.With().Str("handler", "notification").Logger(),
	}
}

// List handles GET /api/email-logs?orderId= requests.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	orderIDStr := r.URL.Query().Get("orderId")
	if orderIDStr == "" {
		writeError(w, http.StatusBadRequest, "orderId query parameter is required", h.logger)
		return
	}

	orderID, err := uuid.Parse(orderIDStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return
	}

	logs, err := h.recorder.ListByOrder(r.Context(), orderID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve email logs", h.logger)
		return
	}

	if logs == nil {
		logs = []model.NotificationLog{}
	}

	writeJSON(w, http.StatusOK, logs)
}
