// Package handlers exposes the services as a JSON API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/go-crm/httpx"
	"github.com/diewo77/go-crm/internal/services"
	"go.uber.org/zap"
)

// writeError maps a service error onto a status code and error body.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", ve.Violations)
	case errors.Is(err, services.ErrValidation):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", nil)
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, services.ErrConflict):
		httpx.JSONError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, services.ErrSuggesterDisabled):
		httpx.JSONError(w, http.StatusServiceUnavailable, "suggester_disabled", nil)
	case errors.Is(err, services.ErrStoreUnavailable):
		log.Error("store unavailable", zap.Error(err))
		httpx.JSONError(w, http.StatusServiceUnavailable, "store_unavailable", nil)
	default:
		log.Error("request failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

func badJSON(w http.ResponseWriter, err error) {
	httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
}
