// internal/app/system/apierr/apierr.go

// Package apierr writes the JSON bodies every API handler responds with.
// Success payloads go through JSON; failures through Error, which produces
// the { "message": "..." } shape the frontend displays verbatim.
package apierr

import (
	"encoding/json"
	"net/http"
)

// errorBody is the uniform failure response.
type errorBody struct {
	Message string `json:"message"`
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a failure response with a human-readable reason.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Message: msg})
}
