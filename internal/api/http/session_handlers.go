package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"

	"github.com/mind-engage/fairgrade/internal/audit"
	authmw "github.com/mind-engage/fairgrade/internal/auth/middleware"
	"github.com/mind-engage/fairgrade/internal/grading"
	"github.com/mind-engage/fairgrade/internal/session"
	"github.com/mind-engage/fairgrade/internal/storage"
)

// GET /sessions
func ListSessionsHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		sessions, err := store.List(r.Context(), userID)
		if err != nil {
			http.Error(w, "list sessions: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(sessions)
	}
}

// GET /sessions/{sessionID}
func GetSessionHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		id := strings.TrimSpace(chi.URLParam(r, "sessionID"))
		sess, err := store.Get(r.Context(), id, userID)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				http.Error(w, "session not found", http.StatusNotFound)
				return
			}
			http.Error(w, "get session: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(sess)
	}
}

// DELETE /sessions/{sessionID}
func DeleteSessionHandler(store session.Store, blobs storage.BlobStore, events *audit.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := httplog.LogEntry(r.Context())
		userID := authmw.SubjectFromContext(r.Context())
		id := strings.TrimSpace(chi.URLParam(r, "sessionID"))

		sess, err := store.Get(r.Context(), id, userID)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				http.Error(w, "session not found", http.StatusNotFound)
				return
			}
			http.Error(w, "get session: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if err := store.Delete(r.Context(), id, userID); err != nil {
			http.Error(w, "delete session: "+err.Error(), http.StatusInternalServerError)
			return
		}
		for _, key := range sess.StudentFiles {
			if err := blobs.Delete(key); err != nil {
				logger.Warn("delete answer file", "key", key, "err", err)
			}
		}
		if events != nil {
			e := audit.SessionEvent(audit.TypeSessionDeleted, id, userID, nil)
			if err := events.Append(r.Context(), e); err != nil {
				logger.Warn("audit append", "err", err)
			}
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// GET /sessions/{sessionID}/students/{studentID}/suggestions
// Re-parses the stored feedback text and returns the improvement items per
// criterion. Fallback rows carry no sections and contribute nothing.
func StudentSuggestionsHandler(store session.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		sessID := strings.TrimSpace(chi.URLParam(r, "sessionID"))
		studentID := strings.TrimSpace(chi.URLParam(r, "studentID"))

		sess, err := store.Get(r.Context(), sessID, userID)
		if err != nil {
			if errors.Is(err, session.ErrNotFound) {
				http.Error(w, "session not found", http.StatusNotFound)
				return
			}
			http.Error(w, "get session: "+err.Error(), http.StatusInternalServerError)
			return
		}

		for _, res := range sess.Results {
			if res.ID != studentID {
				continue
			}
			out := map[string][]string{}
			for _, c := range res.Criteria {
				if items := grading.ExtractSuggestions(c.Feedback); len(items) > 0 {
					out[c.Name] = items
				}
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"student":     res.Name,
				"suggestions": out,
			})
			return
		}
		http.Error(w, "student result not found", http.StatusNotFound)
	}
}
