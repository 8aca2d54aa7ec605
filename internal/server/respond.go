package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

type apiError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]any) {
	writeJSON(w, status, map[string]apiError{"error": {Code: code, Message: message, Details: details}})
}

func unavailable(w http.ResponseWriter, component string) {
	writeError(w, http.StatusServiceUnavailable, "dataset_unavailable",
		component+" data is not loaded; run fetch first", map[string]any{"dataset": component})
}

// intParam reads an optional integer query parameter. ok is false when the value is
// present but malformed, after an error has been written.
func intParam(w http.ResponseWriter, r *http.Request, name string) (v int, set, ok bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, false, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid "+name, map[string]any{name: raw})
		return 0, false, false
	}
	return v, true, true
}
