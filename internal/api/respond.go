// Package api holds the shared JSON response helpers. Error bodies follow
// the OAuth-style {error, error_description} shape used across the API.
package api

import (
	"encoding/json"
	"net/http"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Error writes an error response.
func Error(w http.ResponseWriter, status int, code, description string) {
	JSON(w, status, map[string]string{
		"error":             code,
		"error_description": description,
	})
}

// StorageError surfaces an underlying store failure to the caller.
func StorageError(w http.ResponseWriter, err error) {
	Error(w, http.StatusInternalServerError, "server_error", "Internal Server Error: "+err.Error())
}
