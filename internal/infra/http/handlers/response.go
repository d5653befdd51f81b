package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/xavierca1/oxyllium-leads/internal/usecase"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps the use case error taxonomy onto HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	code := usecase.ErrorCode(err)
	writeJSON(w, statusFor(code), errorResponse{Error: err.Error(), Code: code})
}

func statusFor(code string) int {
	switch code {
	case usecase.CodeLeadNotFound, usecase.CodeNoRecipients, usecase.CodeValidation:
		return http.StatusBadRequest
	case usecase.CodeInvalidTransition:
		return http.StatusConflict
	case usecase.CodeDeliveryFailed:
		return http.StatusBadGateway
	case usecase.CodeUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
