package middleware

import (
	"encoding/json"
	"net/http"
)

// jsonError mirrors api.JSONErrorMessage; the api package imports this one.
func jsonError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
