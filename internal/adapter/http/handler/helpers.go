package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/warelot/stockledger/internal/adapter/http/dto"
	"github.com/warelot/stockledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps a domain error to its HTTP response. Insufficient
// stock rejections carry the available and requested quantities.
func writeDomainError(w http.ResponseWriter, err error) {
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(dto.ErrorResponse{
			Error:     "insufficient stock",
			Message:   stockErr.Error(),
			Available: &stockErr.Available,
			Requested: &stockErr.Requested,
		})
		return
	}

	writeError(w, mapDomainError(err), "request rejected", err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownLedger):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, domain.ErrItemInactive):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrFutureDate):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingDocument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrMissingBatch):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidBatchFormat):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrExpiryRequired):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrExpiryBeforeDate):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownActivity):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
