package httpx

import (
	"net/http"
)

// NotFound serves the 404 page to browsers and a JSON error to everything else.
// Signed-out visitors get a sign-in link that returns them to the missing URL.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) {
		writeAPIError(w, http.StatusNotFound, "not_found", "not found")
		return
	}
	if h.T == nil {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}

	signedIn := sessionFromContext(r.Context()) != nil
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	err := h.T.RenderError(w, r, map[string]any{
		"Title":           "Page Not Found - " + brandName,
		"Brand":           brandName,
		"Code":            "404",
		"Message":         "No page lives at this address.",
		"IsAuthenticated": signedIn,
		"ShowLogin":       !signedIn,
		"RedirectURI":     r.URL.RequestURI(),
	})
	if err != nil {
		h.logger().ErrorContext(r.Context(), "not found render failed", "error", err)
	}
}
