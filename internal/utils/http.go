package utils

import (
	"encoding/json"
	"net/http"

	"github.com/fixit-helpdesk/fixit/models"
)

// WriteJSON serializes v into the response body with the given status code
// and a "application/json" content type. Serialization errors are reported
// with a plain 500; by that point headers may already be written, so no
// JSON error body is attempted.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "error encoding response", http.StatusInternalServerError)
	}
}

// WriteJSONError writes a [models.ErrorResponse] body with the given status
// code. Used by handlers and the error mapper for every non-2xx response so
// clients always receive the same error shape.
func WriteJSONError(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, models.ErrorResponse{Error: message})
}
