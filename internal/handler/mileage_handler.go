package handler

import (
	"net/http"
	"strconv"
	"strings"

	"shopmile/internal/model"
	"shopmile/internal/service"

	"github.com/rs/zerolog"
)

// MileageHandler handles mileage account HTTP requests.
type MileageHandler struct {
	service service.MileageService
	logger  zerolog.Logger
}

// NewMileageHandler creates a new mileage handler.
func NewMileageHandler(service service.MileageService, logger zerolog.Logger) *MileageHandler {
	return &MileageHandler{
		service: service,
		logger:  logger.With().Str("handler", "mileage").Logger(),
	}
}

// GetAccount handles GET /api/mileage/{accountId} requests, returning the
// balance and a page of ledger history.
func (h *MileageHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	accountID := strings.TrimPrefix(r.URL.Path, "/api/mileage/")
	if accountID == "" || strings.Contains(accountID, "/") {
		writeError(w, http.StatusBadRequest, "account ID is required", h.logger)
		return
	}

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	balance, err := h.service.BalanceOf(r.Context(), accountID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute balance", h.logger)
		return
	}

	history, err := h.service.HistoryOf(r.Context(), accountID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve history", h.logger)
		return
	}

	if history == nil {
		history = []model.LedgerEntry{}
	}

	writeJSON(w, http.StatusOK, model.MileageResponse{
		AccountID: accountID,
		Balance:   balance,
		History:   history,
		Limit:     limit,
		Offset:    offset,
	})
}

// queryInt parses an integer query parameter, returning the default when the
// parameter is absent or malformed.
func queryInt(r *http.Request, key string, defaultValue int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
