package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/httplog/v2"
	"github.com/google/uuid"

	"github.com/mind-engage/fairgrade/internal/audit"
	authmw "github.com/mind-engage/fairgrade/internal/auth/middleware"
	"github.com/mind-engage/fairgrade/internal/grading"
	"github.com/mind-engage/fairgrade/internal/rubric"
	"github.com/mind-engage/fairgrade/internal/session"
	"github.com/mind-engage/fairgrade/internal/storage"
)

const maxUploadBytes = 32 << 20

// sanitizeFilename reduces a client-supplied filename to its last path
// element. Multipart filenames feed straight into blob keys, so path
// separators and dot segments must never survive. Returns "" when nothing
// usable is left.
func sanitizeFilename(name string) string {
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return ""
	}
	return name
}

// GradingDeps bundles what the grading endpoint needs.
type GradingDeps struct {
	Grader         *grading.Grader
	Sessions       session.Store
	Rubrics        rubric.Store
	Blobs          storage.BlobStore
	Events         *audit.EventRepo
	DefaultSubject string
}

// POST /grade (multipart/form-data)
// Fields: session_name, subject, rubric_text or rubric_id, files (repeated).
// Runs the whole batch, persists the session and returns it. Individual
// grading failures never fail the request; they show up as fallback rows.
func GradeBatchHandler(deps GradingDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := httplog.LogEntry(r.Context())
		userID := authmw.SubjectFromContext(r.Context())
		if userID == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			http.Error(w, "bad multipart form: "+err.Error(), http.StatusBadRequest)
			return
		}

		rubricText := r.FormValue("rubric_text")
		if rubricText == "" {
			if rid := r.FormValue("rubric_id"); rid != "" {
				rb, err := deps.Rubrics.Get(r.Context(), rid, userID)
				if err != nil {
					http.Error(w, "rubric: "+err.Error(), http.StatusBadRequest)
					return
				}
				rubricText = rb.Text
			}
		}
		if strings.TrimSpace(rubricText) == "" {
			http.Error(w, "rubric_text or rubric_id required", http.StatusBadRequest)
			return
		}

		fhs := r.MultipartForm.File["files"]
		if len(fhs) == 0 {
			http.Error(w, "at least one answer file required", http.StatusBadRequest)
			return
		}

		files := make([]grading.AnswerFile, 0, len(fhs))
		for _, fh := range fhs {
			name := sanitizeFilename(fh.Filename)
			if name == "" {
				http.Error(w, "bad filename: "+fh.Filename, http.StatusBadRequest)
				return
			}
			f, err := fh.Open()
			if err != nil {
				http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
				return
			}
			mime := fh.Header.Get("Content-Type")
			if mime == "" {
				mime = "application/octet-stream"
			}
			files = append(files, grading.AnswerFile{Name: name, MIME: mime, Data: data})
		}

		subject := r.FormValue("subject")
		if subject == "" {
			subject = deps.DefaultSubject
		}

		results := deps.Grader.ProcessStudentAnswers(r.Context(), files, rubricText, subject)

		sess := session.Session{
			ID:         uuid.NewString(),
			UserID:     userID,
			Subject:    subject,
			Name:       r.FormValue("session_name"),
			RubricText: rubricText,
			Results:    results,
		}
		if sess.Name == "" {
			sess.Name = "Grading session"
		}
		for _, f := range files {
			key := "sessions/" + sess.ID + "/" + f.Name
			if _, err := deps.Blobs.Put(key, bytes.NewReader(f.Data)); err != nil {
				logger.Warn("store answer file", "key", key, "err", err)
				continue
			}
			sess.StudentFiles = append(sess.StudentFiles, key)
		}

		saved, err := deps.Sessions.Save(r.Context(), sess)
		if err != nil {
			http.Error(w, "save session: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if deps.Events != nil {
			e := audit.SessionEvent(audit.TypeSessionSaved, saved.ID, userID, map[string]any{"files": len(files)})
			if err := deps.Events.Append(r.Context(), e); err != nil {
				logger.Warn("audit append", "err", err)
			}
		}

		logger.Info("grading batch complete",
			"session_id", saved.ID,
			"files", len(files),
			"students", len(results))
		_ = json.NewEncoder(w).Encode(saved)
	}
}
