// Package respond writes the JSON envelopes used by the API.
//
//	success: { "success": true, "data": ... }
//	denial:  { "message": "..." }
package respond

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Success writes {"success": true, "data": data}.
func Success(w http.ResponseWriter, status int, data any) {
	JSON(w, status, envelope{Success: true, Data: data})
}

// SuccessMessage writes {"success": true, "message": msg, "data": data}.
func SuccessMessage(w http.ResponseWriter, status int, msg string, data any) {
	JSON(w, status, envelope{Success: true, Message: msg, Data: data})
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}
