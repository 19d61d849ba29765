package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lostiburones/cobranza-service/internal/domain"
	sqlrepository "github.com/lostiburones/cobranza-service/internal/infrastructure/repository/mysql"
	"github.com/lostiburones/cobranza-service/internal/interface/http/dto"
)

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := dto.ErrorResponse{Error: message}
	if err != nil {
		response.Message = err.Error()
	}
	respondJSON(w, status, response)
}

// respondDomainError maps the error taxonomy onto HTTP statuses so callers
// can tell a fixable request from a business-rule conflict from an outage.
func respondDomainError(w http.ResponseWriter, err error) {
	var (
		validation *domain.ValidationError
		duplicate  *domain.DuplicateReceiptError
		state      *domain.InvalidStateError
		partial    *domain.PartialApplyError
		ioErr      *domain.IOError
	)

	switch {
	case errors.As(err, &validation):
		respondError(w, http.StatusBadRequest, "validation failed", err)
	case errors.As(err, &duplicate):
		respondError(w, http.StatusConflict, "duplicate receipt", err)
	case errors.As(err, &state):
		respondError(w, http.StatusConflict, "invalid state", err)
	case errors.Is(err, sqlrepository.ErrFinancingNotFound),
		errors.Is(err, sqlrepository.ErrClientNotFound),
		errors.Is(err, sqlrepository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "not found", err)
	case errors.Is(err, sqlrepository.ErrInsufficientStock):
		respondError(w, http.StatusConflict, "insufficient stock", err)
	case errors.As(err, &partial):
		respondError(w, http.StatusInternalServerError, "partially applied", err)
	case errors.As(err, &ioErr):
		respondError(w, http.StatusBadGateway, "persistence failure", err)
	default:
		respondError(w, http.StatusInternalServerError, "internal error", err)
	}
}
