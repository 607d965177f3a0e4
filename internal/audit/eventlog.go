// Package audit appends grading lifecycle events to an append-only log so a
// deployment can answer "who graded what, when" after the fact.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"
)

const (
	TypeSessionSaved   = "SessionSaved"
	TypeSessionDeleted = "SessionDeleted"
)

type Event struct {
	Seq       int64
	SiteID    string
	Type      string
	Key       string
	DataJSON  string
	CreatedAt int64
}

type EventRepo struct{ db *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

func (r *EventRepo) Append(ctx context.Context, e Event) error {
	if e.SiteID == "" {
		e.SiteID = "local"
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (site_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		e.SiteID, e.Type, e.Key, e.DataJSON, time.Now().Unix())
	return err
}

// SessionEvent builds an event for a grading-session lifecycle change.
func SessionEvent(typ, sessionID, userID string, extra map[string]any) Event {
	payload := map[string]any{"user_id": userID}
	for k, v := range extra {
		payload[k] = v
	}
	data, _ := json.Marshal(payload)
	return Event{Type: typ, Key: sessionID, DataJSON: string(data)}
}
