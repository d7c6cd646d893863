package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per run of the control loop
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			serial_port TEXT NOT NULL DEFAULT '',
			cycles INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			commands INTEGER NOT NULL DEFAULT 0,
			toggles INTEGER NOT NULL DEFAULT 0,
			final_angle INTEGER NOT NULL DEFAULT 0
		)`,

		// Events table - mode flips and session boundaries
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			at DATETIME NOT NULL,
			kind TEXT NOT NULL CHECK(kind IN ('start', 'toggle', 'stop')),
			mode TEXT NOT NULL CHECK(mode IN ('TRACK', 'HOLD')),
			zoom REAL NOT NULL,
			angle INTEGER NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_events_session_id ON events(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
