// Package session persists grading batch runs for later review.
package session

import (
	"context"
	"errors"

	"github.com/mind-engage/fairgrade/internal/grading"
)

// Session is one grading batch: the inputs that produced it and the
// per-student results, owned by the teacher who ran it.
type Session struct {
	ID           string                  `json:"id"`
	UserID       string                  `json:"user_id"`
	Subject      string                  `json:"subject"`
	Name         string                  `json:"session_name"`
	StudentFiles []string                `json:"student_files"` // blob keys of the uploaded answers
	RubricText   string                  `json:"rubric_text"`
	Results      []grading.StudentResult `json:"results"`
	CreatedAt    int64                   `json:"created_at"`
}

var ErrNotFound = errors.New("session not found")

// Store persists grading sessions. Every read and delete is scoped to the
// owning user; ownership is the only authorization model at this layer.
type Store interface {
	Save(ctx context.Context, s Session) (Session, error)
	Get(ctx context.Context, id, userID string) (Session, error)
	List(ctx context.Context, userID string) ([]Session, error)
	Delete(ctx context.Context, id, userID string) error
}
