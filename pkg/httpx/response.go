package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON encodes v with the given status. Responses are marked
// uncacheable since most carry credentials or account state.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteData wraps v in the dashboard's `{"data": ...}` envelope before
// writing it. Token-bearing responses use this shape so clients can rely on
// a single documented schema.
func WriteData(w http.ResponseWriter, code int, v any) {
	WriteJSON(w, code, map[string]any{"data": v})
}

// WriteMessage writes a `{"message": ...}` body, the convention for action
// endpoints that only need to confirm success.
func WriteMessage(w http.ResponseWriter, code int, msg string) {
	WriteJSON(w, code, map[string]string{"message": msg})
}

// NoCache forbids intermediaries and browsers from storing the response.
func NoCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")
}
