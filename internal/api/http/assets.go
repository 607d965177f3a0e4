// internal/api/http/assets.go
package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/mind-engage/fairgrade/internal/auth/middleware"
	"github.com/mind-engage/fairgrade/internal/session"
	"github.com/mind-engage/fairgrade/internal/storage"
)

// MountAssets serves stored answer files back to the teacher who uploaded
// them. Keys look like sessions/<sessionID>/<filename>; the session lookup
// doubles as the ownership check.
func MountAssets(r chi.Router, bs storage.BlobStore, sessions session.Store) {
	// GET /assets/sessions/{sessionID}/{filename}
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")

		parts := strings.SplitN(key, "/", 3)
		if len(parts) != 3 || parts[0] != "sessions" || strings.Contains(parts[2], "..") {
			http.Error(w, "bad asset key", http.StatusBadRequest)
			return
		}
		if _, err := sessions.Get(r.Context(), parts[1], userID); err != nil {
			if errors.Is(err, session.ErrNotFound) {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			http.Error(w, "lookup: "+err.Error(), http.StatusInternalServerError)
			return
		}

		rc, err := bs.Get(key)
		if err != nil {
			http.Error(w, "not found: "+err.Error(), http.StatusNotFound)
			return
		}
		defer rc.Close()

		ct := mime.TypeByExtension(filepath.Ext(parts[2]))
		if ct == "" {
			ct = "application/octet-stream"
		}
		w.Header().Set("Content-Type", ct)
		_, _ = io.Copy(w, rc)
	})
}
