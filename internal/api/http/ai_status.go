package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mind-engage/fairgrade/internal/grading"
	"github.com/mind-engage/fairgrade/internal/grading/genai"
)

// GET /ai/status
// Sends a trivial text-only prompt so teachers can confirm the API key and
// endpoint work before committing a whole batch to fallback scores.
func AIStatusHandler(gen grading.Generator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, err := gen.GenerateText(r.Context(), "Reply with the single word OK.")
		switch {
		case err == nil:
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
		case errors.Is(err, genai.ErrNotConfigured):
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": "api key not configured"})
		default:
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(map[string]any{"ok": false, "error": err.Error()})
		}
	}
}
