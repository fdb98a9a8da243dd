package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ljcl79/shophub/internal/cart"
	"github.com/ljcl79/shophub/internal/catalog"
	"github.com/ljcl79/shophub/internal/session"
	"github.com/ljcl79/shophub/internal/storeapi"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, log *zap.Logger, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, log *zap.Logger, status int, code, details string) {
	respondJSON(w, log, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: details,
	})
}

// handleDomainError converts state-layer errors to HTTP responses.
func handleDomainError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, cart.ErrNotAuthenticated):
		respondError(w, log, http.StatusForbidden, "permission_denied", err.Error())
	case errors.Is(err, cart.ErrQuantityInvalid):
		respondError(w, log, http.StatusBadRequest, "invalid_quantity", err.Error())
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, storeapi.ErrNotFound):
		respondError(w, log, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, session.ErrInvalidCredentials):
		respondError(w, log, http.StatusUnauthorized, "invalid_credentials", err.Error())
	case errors.Is(err, session.ErrEmailTaken):
		respondError(w, log, http.StatusConflict, "already_exists", err.Error())
	default:
		log.Error("unhandled domain error", zap.Error(err))
		respondError(w, log, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
