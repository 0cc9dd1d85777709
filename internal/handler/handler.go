package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"shopmile/internal/model"

	"github.com/rs/zerolog"
)

// Response is the standard envelope for all API responses.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// writeJSON writes a success envelope with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{Success: true, Data: data}); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error envelope with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{Success: false, Error: message}); err != nil {
		return
	}
}

// writeDomainError maps a service error onto a status code and writes the
// error envelope.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	status, message := statusForError(err)
	writeError(w, status, message, logger)
}

// statusForError maps a domain error to its HTTP status and client message.
// Unknown errors collapse to a generic 500 so internals never leak.
func statusForError(err error) (int, string) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case model.ErrCodeInvalidTransition:
			return http.StatusConflict, domainErr.Message
		case model.ErrCodeInsufficientBalance,
			model.ErrCodeOverflowRejected:
			return http.StatusUnprocessableEntity, domainErr.Message
		case model.ErrCodeOrderNotFound,
			model.ErrCodeBatchNotFound:
			return http.StatusNotFound, domainErr.Message
		case model.ErrCodeProductNotFound,
			model.ErrCodeInvalidQuantity,
			model.ErrCodeInvalidPromoCode,
			model.ErrCodeInvalidPromoLength:
			return http.StatusBadRequest, domainErr.Message
		case model.ErrCodeUnauthorised:
			return http.StatusUnauthorized, domainErr.Message
		}
	}

	return http.StatusInternalServerError, "internal server error"
}
