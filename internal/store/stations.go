package store

import (
	"database/sql"
	"errors"

	"github.com/renderix/heliosphere/internal/globe"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// StationRepository provides access to the persisted station catalog.
type StationRepository struct {
	db *sql.DB
}

// Stations returns the station repository for this store.
func (s *Store) Stations() *StationRepository {
	return &StationRepository{db: s.db}
}

// Count returns the number of persisted stations.
func (r *StationRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM stations`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// List retrieves the full catalog ordered by id.
func (r *StationRepository) List() ([]globe.StationRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, lat, lon, area_km2, size FROM stations ORDER BY id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []globe.StationRecord
	for rows.Next() {
		var rec globe.StationRecord
		var size string

		if err := rows.Scan(&rec.ID, &rec.Coord.Lat, &rec.Coord.Lon, &rec.AreaKm2, &size); err != nil {
			return nil, err
		}

		rec.Size = globe.SizeClass(size)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// GetByID retrieves a single station.
func (r *StationRepository) GetByID(id string) (*globe.StationRecord, error) {
	rec := &globe.StationRecord{}
	var size string

	err := r.db.QueryRow(
		`SELECT id, lat, lon, area_km2, size FROM stations WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.Coord.Lat, &rec.Coord.Lon, &rec.AreaKm2, &size)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rec.Size = globe.SizeClass(size)
	return rec, nil
}

// ReplaceAll swaps the persisted catalog for the given records in one
// transaction.
func (r *StationRepository) ReplaceAll(records []globe.StationRecord) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM stations`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO stations (id, lat, lon, area_km2, size) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.Exec(rec.ID, rec.Coord.Lat, rec.Coord.Lon, rec.AreaKm2, string(rec.Size)); err != nil {
			return err
		}
	}

	return tx.Commit()
}
