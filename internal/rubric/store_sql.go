package rubric

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("rubric not found")

// Store persists rubrics. Every operation is scoped to the owning user.
type Store interface {
	Save(ctx context.Context, r Rubric) (Rubric, error)
	Get(ctx context.Context, id, userID string) (Rubric, error)
	List(ctx context.Context, userID string) ([]Rubric, error)
	Delete(ctx context.Context, id, userID string) error
}

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Save(ctx context.Context, r Rubric) (Rubric, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt == 0 {
		r.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rubrics (id,user_id,name,subject,rubric_text,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE SET name=EXCLUDED.name, subject=EXCLUDED.subject, rubric_text=EXCLUDED.rubric_text
		 WHERE rubrics.user_id=EXCLUDED.user_id`,
		r.ID, r.UserID, r.Name, r.Subject, r.Text, r.CreatedAt)
	if err != nil {
		return Rubric{}, err
	}
	return r, nil
}

func (s *SQLStore) Get(ctx context.Context, id, userID string) (Rubric, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id,user_id,name,subject,rubric_text,created_at FROM rubrics WHERE id=$1 AND user_id=$2`,
		id, userID)
	var r Rubric
	if err := row.Scan(&r.ID, &r.UserID, &r.Name, &r.Subject, &r.Text, &r.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Rubric{}, ErrNotFound
		}
		return Rubric{}, err
	}
	return r, nil
}

func (s *SQLStore) List(ctx context.Context, userID string) ([]Rubric, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id,user_id,name,subject,rubric_text,created_at FROM rubrics WHERE user_id=$1 ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Rubric{}
	for rows.Next() {
		var r Rubric
		if err := rows.Scan(&r.ID, &r.UserID, &r.Name, &r.Subject, &r.Text, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id, userID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM rubrics WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
