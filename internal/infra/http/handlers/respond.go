package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/poolbau-vergleich/leadmarket/internal/usecase"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondError maps the usecase error taxonomy onto HTTP statuses.
func respondError(w http.ResponseWriter, err error) {
	var domainErr *usecase.DomainError
	if errors.As(err, &domainErr) {
		respondJSON(w, domainStatus(domainErr.Code), errorResponse{
			Error: domainErr.Message,
			Code:  domainErr.Code,
		})
		return
	}

	respondJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

func domainStatus(code string) int {
	switch code {
	case usecase.CodeDuplicatePurchase:
		return http.StatusConflict
	case usecase.CodeLeadNotAvailable:
		return http.StatusNotFound
	case usecase.CodePaymentFailed:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}
