package store

import (
	"database/sql"
	"time"
)

// EventKind classifies journal events.
type EventKind string

const (
	// EventStart marks the first cycle of a session.
	EventStart EventKind = "start"
	// EventToggle is a TRACK/HOLD flip.
	EventToggle EventKind = "toggle"
	// EventStop marks the end of a session.
	EventStop EventKind = "stop"
)

// Event is a controller snapshot taken when something notable happened.
type Event struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	At        time.Time `json:"at"`
	Kind      EventKind `json:"kind"`
	Mode      string    `json:"mode"`
	Zoom      float64   `json:"zoom"`
	Angle     int       `json:"angle"`
}

// EventRepository records session events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record appends an event. At defaults to now.
func (r *EventRepository) Record(e *Event) error {
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}

	result, err := r.db.Exec(
		`INSERT INTO events (session_id, at, kind, mode, zoom, angle) VALUES (?, ?, ?, ?, ?, ?)`,
		e.SessionID, e.At, string(e.Kind), e.Mode, e.Zoom, e.Angle,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = id

	return nil
}

// ListBySession returns a session's events in the order they happened.
func (r *EventRepository) ListBySession(sessionID string) ([]*Event, error) {
	rows, err := r.db.Query(
		`SELECT id, session_id, at, kind, mode, zoom, angle
		 FROM events WHERE session_id = ? ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var kind string

		if err := rows.Scan(&e.ID, &e.SessionID, &e.At, &kind, &e.Mode, &e.Zoom, &e.Angle); err != nil {
			return nil, err
		}

		e.Kind = EventKind(kind)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
