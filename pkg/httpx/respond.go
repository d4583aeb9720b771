// Package httpx holds the JSON wire helpers shared by handlers and middleware.
package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorBody is the error contract: a human string plus, for policy denials,
// a machine-readable code.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, status int, msg, code string) {
	JSON(w, status, ErrorBody{Error: msg, Code: code})
}
