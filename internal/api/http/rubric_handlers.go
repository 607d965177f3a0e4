package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	authmw "github.com/mind-engage/fairgrade/internal/auth/middleware"
	"github.com/mind-engage/fairgrade/internal/rubric"
)

type saveRubricReq struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Subject string `json:"subject,omitempty"`
	Text    string `json:"text"`
}

// POST /rubrics
// Unlike grading, which self-normalizes on the weight sum, saving a rubric
// enforces that weights add up to 100 so teachers catch typos up front.
func SaveRubricHandler(store rubric.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		var req saveRubricReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			http.Error(w, "name required", http.StatusBadRequest)
			return
		}
		criteria := rubric.Parse(req.Text)
		if len(criteria) == 0 {
			http.Error(w, "rubric has no parsable criteria", http.StatusBadRequest)
			return
		}
		if total := rubric.TotalWeight(criteria); total != 100 {
			http.Error(w, "criterion weights must sum to 100", http.StatusBadRequest)
			return
		}
		saved, err := store.Save(r.Context(), rubric.Rubric{
			ID:      req.ID,
			UserID:  userID,
			Name:    req.Name,
			Subject: req.Subject,
			Text:    req.Text,
		})
		if err != nil {
			http.Error(w, "save rubric: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(saved)
	}
}

// GET /rubrics
func ListRubricsHandler(store rubric.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		rubrics, err := store.List(r.Context(), userID)
		if err != nil {
			http.Error(w, "list rubrics: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(rubrics)
	}
}

// GET /rubrics/{rubricID}
func GetRubricHandler(store rubric.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		id := strings.TrimSpace(chi.URLParam(r, "rubricID"))
		rb, err := store.Get(r.Context(), id, userID)
		if err != nil {
			if errors.Is(err, rubric.ErrNotFound) {
				http.Error(w, "rubric not found", http.StatusNotFound)
				return
			}
			http.Error(w, "get rubric: "+err.Error(), http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(rb)
	}
}

// DELETE /rubrics/{rubricID}
func DeleteRubricHandler(store rubric.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := authmw.SubjectFromContext(r.Context())
		id := strings.TrimSpace(chi.URLParam(r, "rubricID"))
		if err := store.Delete(r.Context(), id, userID); err != nil {
			if errors.Is(err, rubric.ErrNotFound) {
				http.Error(w, "rubric not found", http.StatusNotFound)
				return
			}
			http.Error(w, "delete rubric: "+err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
