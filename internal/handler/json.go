package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/filedrive/filedrive/internal/service"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeServiceError maps the service error taxonomy onto HTTP status codes.
// Anything outside the taxonomy is a 500 with the detail kept server-side.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthenticated", err))
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody("forbidden", err))
	case errors.Is(err, service.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not_found", err))
	case errors.Is(err, service.ErrDuplicateName),
		errors.Is(err, service.ErrAlreadyDeleted),
		errors.Is(err, service.ErrNotDeleted),
		errors.Is(err, service.ErrFileDeleted):
		writeJSON(w, http.StatusConflict, errorBody("conflict", err))
	case errors.Is(err, service.ErrInvalidName),
		errors.Is(err, service.ErrInvalidType),
		errors.Is(err, service.ErrBlobMissing):
		writeJSON(w, http.StatusBadRequest, errorBody("invalid_request", err))
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "internal",
			"message": "internal server error",
		})
	}
}

func errorBody(code string, err error) map[string]any {
	return map[string]any{
		"error":   code,
		"message": err.Error(),
	}
}
