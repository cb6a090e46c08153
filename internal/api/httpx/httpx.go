package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/smokwena/dispute-backend/internal/engine"
)

type APIError struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// WriteEngineError maps the engine taxonomy onto HTTP so refusals stay
// distinguishable for the caller.
func WriteEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "not found", nil)
	case errors.Is(err, engine.ErrConflict):
		WriteError(w, http.StatusConflict, "conflict", err.Error(), nil)
	case errors.Is(err, engine.ErrInvalidTransition):
		WriteError(w, http.StatusUnprocessableEntity, "invalid_transition", err.Error(), nil)
	case errors.Is(err, engine.ErrUnauthorized):
		WriteError(w, http.StatusForbidden, "unauthorized", err.Error(), nil)
	case errors.Is(err, engine.ErrStaleState):
		WriteError(w, http.StatusConflict, "stale_state", err.Error(), nil)
	case errors.Is(err, engine.ErrTransportUnavailable):
		WriteError(w, http.StatusBadGateway, "registry_unavailable", err.Error(), nil)
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}
