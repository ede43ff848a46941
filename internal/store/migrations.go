package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Stations table - the generated PV station catalog. Persisting it
		// keeps the rendered world stable across restarts of the same
		// deployment.
		`CREATE TABLE IF NOT EXISTS stations (
			id TEXT PRIMARY KEY,
			lat REAL NOT NULL,
			lon REAL NOT NULL,
			area_km2 REAL NOT NULL,
			size TEXT NOT NULL CHECK(size IN ('small', 'medium', 'large')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_stations_size ON stations(size)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
