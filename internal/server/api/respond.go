// Package api provides HTTP API handlers for the gestura configuration surface.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/gestura/internal/gesture"
	"github.com/ayusman/gestura/internal/settings"
)

// maxBodyBytes bounds request bodies, including gesture imports.
const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeEngineError maps an engine error onto a status code.
func writeEngineError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, gesture.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, gesture.ErrConflict), errors.Is(err, gesture.ErrDisabled):
		return http.StatusConflict
	case errors.Is(err, gesture.ErrCannotDeleteBuiltin):
		return http.StatusForbidden
	case errors.Is(err, gesture.ErrEmptyPattern),
		errors.Is(err, gesture.ErrDecode),
		errors.Is(err, gesture.ErrNoActiveStroke),
		errors.Is(err, settings.ErrOutOfRange):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// decodeJSON reads a JSON body into v, rejecting oversized payloads.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}
