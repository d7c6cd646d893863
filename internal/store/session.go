package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is one run of the control loop.
type Session struct {
	ID         string     `json:"id"`
	StartedAt  time.Time  `json:"started_at"`
	EndedAt    *time.Time `json:"ended_at,omitempty"`
	SerialPort string     `json:"serial_port"`
	Stats
}

// Stats are the loop counters recorded when a session finishes.
type Stats struct {
	Cycles     int `json:"cycles"`
	Skipped    int `json:"skipped"`
	Commands   int `json:"commands"`
	Toggles    int `json:"toggles"`
	FinalAngle int `json:"final_angle"`
}

// SessionRepository records sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Start inserts a new open session and returns it.
func (r *SessionRepository) Start(serialPort string) (*Session, error) {
	sess := &Session{
		ID:         uuid.New().String(),
		StartedAt:  time.Now().UTC(),
		SerialPort: serialPort,
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, serial_port) VALUES (?, ?, ?)`,
		sess.ID, sess.StartedAt, sess.SerialPort,
	)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// Finish closes a session and stores its counters.
func (r *SessionRepository) Finish(id string, stats Stats) error {
	result, err := r.db.Exec(
		`UPDATE sessions
		 SET ended_at = ?, cycles = ?, skipped = ?, commands = ?, toggles = ?, final_angle = ?
		 WHERE id = ?`,
		time.Now().UTC(), stats.Cycles, stats.Skipped, stats.Commands, stats.Toggles, stats.FinalAngle, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	row := r.db.QueryRow(
		`SELECT id, started_at, ended_at, serial_port, cycles, skipped, commands, toggles, final_angle
		 FROM sessions WHERE id = ?`,
		id,
	)

	sess, err := scanSession(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return sess, nil
}

// List returns the most recent sessions first. A limit of zero or less
// returns all of them.
func (r *SessionRepository) List(limit int) ([]*Session, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, serial_port, cycles, skipped, commands, toggles, final_angle
		 FROM sessions ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (*Session, error) {
	sess := &Session{}
	var ended sql.NullTime

	err := row.Scan(&sess.ID, &sess.StartedAt, &ended, &sess.SerialPort,
		&sess.Cycles, &sess.Skipped, &sess.Commands, &sess.Toggles, &sess.FinalAngle)
	if err != nil {
		return nil, err
	}

	if ended.Valid {
		t := ended.Time
		sess.EndedAt = &t
	}
	return sess, nil
}
