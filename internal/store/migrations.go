package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Gestures table - one row per gesture; seq preserves registration order
		`CREATE TABLE IF NOT EXISTS gestures (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			channel TEXT NOT NULL CHECK(channel IN ('Mouse', 'Trackpad', 'Touch', 'Rocker', 'Wheel')),
			directions TEXT NOT NULL,
			min_distance REAL NOT NULL DEFAULT 30,
			max_duration_ms INTEGER NOT NULL DEFAULT 2000,
			angle_tolerance REAL NOT NULL DEFAULT 30,
			action TEXT NOT NULL,
			enabled INTEGER NOT NULL DEFAULT 1,
			is_builtin INTEGER NOT NULL DEFAULT 0,
			usage_count INTEGER NOT NULL DEFAULT 0,
			created_at_ms INTEGER NOT NULL,
			last_used_ms INTEGER
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_gestures_channel ON gestures(channel)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
