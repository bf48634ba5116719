package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
)

// apiError is the body non-browser clients get instead of an HTML page.
type apiError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeJSON encodes v before touching w so an encoding failure can still
// become a clean 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func writeAPIError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, apiError{Error: code, Message: message})
}
