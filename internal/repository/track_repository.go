package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/trackrec/records-backend-go/internal/models"
)

// TrackRepository handles database operations for uploaded track metadata
type TrackRepository struct {
	db     *sql.DB
	driver string
}

// NewTrackRepository creates a new track repository
func NewTrackRepository(db *sql.DB, driver string) *TrackRepository {
	return &TrackRepository{db: db, driver: driver}
}

const trackColumns = `id, user_id, filename, format, source, created_at, distance_km, duration_s, elevation_gain_m`

// Save inserts a track row. Saving an existing id refreshes its summary.
func (r *TrackRepository) Save(ctx context.Context, t models.Track) error {
	query := rebind(r.driver, `INSERT INTO tracks (`+trackColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			distance_km = excluded.distance_km,
			duration_s = excluded.duration_s,
			elevation_gain_m = excluded.elevation_gain_m`)

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.UserID, t.Filename, t.Format, t.Source, formatTime(t.CreatedAt),
		nullFloat(t.DistanceKm), nullInt64(t.DurationS), nullFloat(t.ElevationGainM),
	)
	if err != nil {
		return fmt.Errorf("failed to save track: %w", err)
	}
	return nil
}

// Get retrieves a track by id
func (r *TrackRepository) Get(ctx context.Context, id string) (*models.Track, error) {
	row := r.db.QueryRowContext(ctx, rebind(r.driver, `SELECT `+trackColumns+` FROM tracks WHERE id = ?`), id)
	t, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	return t, nil
}

// ListByUser returns a page of a user's tracks, newest first, and the total count
func (r *TrackRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]models.Track, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, rebind(r.driver, `SELECT COUNT(*) FROM tracks WHERE user_id = ?`), userID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tracks: %w", err)
	}

	if limit < 1 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}

	query := rebind(r.driver, `SELECT `+trackColumns+` FROM tracks WHERE user_id = ?
		ORDER BY created_at DESC, id LIMIT ? OFFSET ?`)
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query tracks: %w", err)
	}
	defer rows.Close()

	tracks := []models.Track{}
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan track: %w", err)
		}
		tracks = append(tracks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate tracks: %w", err)
	}
	return tracks, total, nil
}

func scanTrack(s rowScanner) (*models.Track, error) {
	var (
		t         models.Track
		createdAt string
		distance  sql.NullFloat64
		duration  sql.NullInt64
		gain      sql.NullFloat64
	)
	err := s.Scan(&t.ID, &t.UserID, &t.Filename, &t.Format, &t.Source, &createdAt, &distance, &duration, &gain)
	if err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	t.DistanceKm = floatPtr(distance)
	t.DurationS = int64Ptr(duration)
	t.ElevationGainM = floatPtr(gain)
	return &t, nil
}
