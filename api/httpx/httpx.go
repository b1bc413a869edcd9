// Package httpx holds small helpers shared by all HTTP handlers.
package httpx

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

type errorBody struct {
	Error string `json:"error"`
}

// JSON writes v as a JSON response with the given status code
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

// Error writes a JSON error response with the given status code
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, errorBody{Error: msg})
}

// Decode reads the request body as JSON into dst. On failure it writes a
// 400 response and returns false.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
