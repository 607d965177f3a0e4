package http

import (
	"encoding/json"
	"net/http"

	"github.com/mind-engage/fairgrade/internal/grading/ocr"
)

// POST /ocr/extract (multipart, field "file")
// Pulls plain text out of one uploaded answer image so teachers can sanity
// check legibility before running a batch. First call pays engine init.
func ExtractTextHandler(engine *ocr.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		text, err := engine.Extract(r.Context(), f)
		if err != nil {
			http.Error(w, "ocr: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"text": text})
	}
}
