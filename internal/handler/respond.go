package handler

import (
	"encoding/json"
	"net/http"
)

// envelope is the response body shape: every payload carries "ok", and
// failures carry "error".
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondOK(w http.ResponseWriter, status int, payload envelope) {
	body := envelope{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, status, body)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{"ok": false, "error": msg})
}
