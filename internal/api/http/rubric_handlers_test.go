package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	authmw "github.com/mind-engage/fairgrade/internal/auth/middleware"
	"github.com/mind-engage/fairgrade/internal/rubric"
)

func withURLParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

type fakeRubricStore struct {
	saved []rubric.Rubric
}

func (f *fakeRubricStore) Save(_ context.Context, r rubric.Rubric) (rubric.Rubric, error) {
	if r.ID == "" {
		r.ID = "r1"
	}
	f.saved = append(f.saved, r)
	return r, nil
}

func (f *fakeRubricStore) Get(_ context.Context, id, userID string) (rubric.Rubric, error) {
	for _, r := range f.saved {
		if r.ID == id && r.UserID == userID {
			return r, nil
		}
	}
	return rubric.Rubric{}, rubric.ErrNotFound
}

func (f *fakeRubricStore) List(_ context.Context, userID string) ([]rubric.Rubric, error) {
	var out []rubric.Rubric
	for _, r := range f.saved {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRubricStore) Delete(_ context.Context, id, userID string) error {
	for i, r := range f.saved {
		if r.ID == id && r.UserID == userID {
			f.saved = append(f.saved[:i], f.saved[i+1:]...)
			return nil
		}
	}
	return rubric.ErrNotFound
}

func asUser(r *http.Request, userID string) *http.Request {
	return r.WithContext(authmw.WithSubject(r.Context(), userID))
}

func TestSaveRubricRejectsBadWeightSum(t *testing.T) {
	store := &fakeRubricStore{}
	body := `{"name":"Essay","text":"Clarity (50%)\nDepth (30%)"}`
	req := asUser(httptest.NewRequest("POST", "/rubrics", strings.NewReader(body)), "u1")
	rec := httptest.NewRecorder()

	SaveRubricHandler(store)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if len(store.saved) != 0 {
		t.Fatalf("rubric was saved despite weight sum %d", 80)
	}
}

func TestSaveRubricAcceptsFullWeight(t *testing.T) {
	store := &fakeRubricStore{}
	body := `{"name":"Essay","subject":"History","text":"Clarity (50%)\nDepth (50%)"}`
	req := asUser(httptest.NewRequest("POST", "/rubrics", strings.NewReader(body)), "u1")
	rec := httptest.NewRecorder()

	SaveRubricHandler(store)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var got rubric.Rubric
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID == "" || got.UserID != "u1" {
		t.Fatalf("unexpected saved rubric: %+v", got)
	}
}

func TestSaveRubricRejectsUnparsableText(t *testing.T) {
	store := &fakeRubricStore{}
	body := `{"name":"Essay","text":"just some prose with no weights"}`
	req := asUser(httptest.NewRequest("POST", "/rubrics", strings.NewReader(body)), "u1")
	rec := httptest.NewRecorder()

	SaveRubricHandler(store)(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGetRubricScopedToOwner(t *testing.T) {
	store := &fakeRubricStore{saved: []rubric.Rubric{
		{ID: "r1", UserID: "u1", Name: "Essay", Text: "Clarity (100%)"},
	}}

	req := asUser(httptest.NewRequest("GET", "/rubrics/r1", nil), "u2")
	req = withURLParam(req, "rubricID", "r1")
	rec := httptest.NewRecorder()

	GetRubricHandler(store)(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 for foreign rubric", rec.Code)
	}
}
