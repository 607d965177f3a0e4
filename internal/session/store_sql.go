package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mind-engage/fairgrade/internal/grading"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Save(ctx context.Context, sess Session) (Session, error) {
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.CreatedAt == 0 {
		sess.CreatedAt = time.Now().Unix()
	}
	filesJSON, err := json.Marshal(sess.StudentFiles)
	if err != nil {
		return Session{}, err
	}
	resultsJSON, err := json.Marshal(sess.Results)
	if err != nil {
		return Session{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO grading_sessions (id,user_id,subject,session_name,files_json,rubric_text,results_json,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (id) DO UPDATE SET subject=EXCLUDED.subject, session_name=EXCLUDED.session_name,
			files_json=EXCLUDED.files_json, rubric_text=EXCLUDED.rubric_text, results_json=EXCLUDED.results_json
		 WHERE grading_sessions.user_id=EXCLUDED.user_id`,
		sess.ID, sess.UserID, sess.Subject, sess.Name, string(filesJSON), sess.RubricText, string(resultsJSON), sess.CreatedAt)
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *SQLStore) Get(ctx context.Context, id, userID string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,user_id,subject,session_name,files_json,rubric_text,results_json,created_at
		 FROM grading_sessions WHERE id=$1 AND user_id=$2`, id, userID)
	return scanSession(row)
}

func (s *SQLStore) List(ctx context.Context, userID string) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,user_id,subject,session_name,files_json,rubric_text,results_json,created_at
		 FROM grading_sessions WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Session{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM grading_sessions WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (Session, error) {
	var sess Session
	var filesJSON, resultsJSON string
	err := row.Scan(&sess.ID, &sess.UserID, &sess.Subject, &sess.Name, &filesJSON, &sess.RubricText, &resultsJSON, &sess.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, ErrNotFound
		}
		return Session{}, err
	}
	if err := json.Unmarshal([]byte(filesJSON), &sess.StudentFiles); err != nil {
		sess.StudentFiles = []string{}
	}
	if err := json.Unmarshal([]byte(resultsJSON), &sess.Results); err != nil {
		sess.Results = []grading.StudentResult{}
	}
	return sess, nil
}
