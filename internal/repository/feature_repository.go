package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/trackrec/records-backend-go/internal/models"
)

var featureColumns = []string{
	"track_id", "user_id",
	"start_time", "end_time", "start_hour_of_day", "day_of_week",
	"start_latitude", "start_longitude", "end_latitude", "end_longitude", "start_area_id",
	"total_distance_km", "straight_line_distance_km", "sinuosity_ratio", "route_curvature",
	"elevation_gain_m", "elevation_loss_m", "gain_per_km", "terrain",
	"elapsed_seconds", "moving_seconds", "stopped_seconds", "avg_speed_kmh", "max_speed_kmh",
	"features_version", "computed_at", "source_format",
}

// FeatureRepository stores one feature record per track
type FeatureRepository struct {
	db     *sql.DB
	driver string

	upsertSQL string
	selectSQL string
}

// NewFeatureRepository creates a new feature repository
func NewFeatureRepository(db *sql.DB, driver string) *FeatureRepository {
	updates := make([]string, 0, len(featureColumns)-1)
	for _, c := range featureColumns[1:] {
		updates = append(updates, c+" = excluded."+c)
	}
	// A recomputed record needs a fresh index upsert
	updates = append(updates, "indexed_at = NULL")
	upsert := fmt.Sprintf(`INSERT INTO track_features (%s) VALUES (%s)
		ON CONFLICT (track_id) DO UPDATE SET %s`,
		strings.Join(featureColumns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(featureColumns)), ", "),
		strings.Join(updates, ", "))

	return &FeatureRepository{
		db:        db,
		driver:    driver,
		upsertSQL: rebind(driver, upsert),
		selectSQL: "SELECT " + strings.Join(featureColumns, ", ") + " FROM track_features",
	}
}

// Save inserts the record or overwrites the existing one for the same track.
// The saved record counts as not indexed until MarkIndexed is called.
func (r *FeatureRepository) Save(ctx context.Context, f models.TrackFeatures) error {
	_, err := r.db.ExecContext(ctx, r.upsertSQL,
		f.TrackID, f.UserID,
		nullTime(f.StartTime), nullTime(f.EndTime), nullInt(f.StartHourOfDay), nullInt(f.DayOfWeek),
		nullFloat(f.StartLatitude), nullFloat(f.StartLongitude), nullFloat(f.EndLatitude), nullFloat(f.EndLongitude),
		nullString(f.StartAreaID),
		nullFloat(f.TotalDistanceKm), nullFloat(f.StraightLineDistanceKm), nullFloat(f.SinuosityRatio),
		nullString(f.RouteCurvature),
		nullFloat(f.ElevationGainM), nullFloat(f.ElevationLossM), nullFloat(f.GainPerKm), nullString(f.Terrain),
		nullInt64(f.ElapsedSeconds), nullInt64(f.MovingSeconds), nullInt64(f.StoppedSeconds),
		nullFloat(f.AvgSpeedKmh), nullFloat(f.MaxSpeedKmh),
		f.FeaturesVersion, formatTime(f.ComputedAt), f.SourceFormat,
	)
	if err != nil {
		return fmt.Errorf("failed to save track features: %w", err)
	}
	return nil
}

// Get returns the feature record of a track
func (r *FeatureRepository) Get(ctx context.Context, trackID string) (*models.TrackFeatures, error) {
	row := r.db.QueryRowContext(ctx, rebind(r.driver, r.selectSQL+" WHERE track_id = ?"), trackID)
	f, err := scanFeatures(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get track features: %w", err)
	}
	return f, nil
}

// ListByUser returns every feature record of a user in a stable order
func (r *FeatureRepository) ListByUser(ctx context.Context, userID int64) ([]models.TrackFeatures, error) {
	return r.list(ctx, " WHERE user_id = ? ORDER BY computed_at, track_id", userID)
}

// ListStale returns records computed by an older extraction version and
// records whose vector never reached the index
func (r *FeatureRepository) ListStale(ctx context.Context, version int) ([]models.TrackFeatures, error) {
	return r.list(ctx, " WHERE features_version < ? OR indexed_at IS NULL ORDER BY track_id", version)
}

// MarkIndexed records that the vector of a track was upserted
func (r *FeatureRepository) MarkIndexed(ctx context.Context, trackID string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		rebind(r.driver, `UPDATE track_features SET indexed_at = ? WHERE track_id = ?`),
		formatTime(at), trackID)
	if err != nil {
		return fmt.Errorf("failed to mark track indexed: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FeatureRepository) list(ctx context.Context, where string, args ...interface{}) ([]models.TrackFeatures, error) {
	rows, err := r.db.QueryContext(ctx, rebind(r.driver, r.selectSQL+where), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query track features: %w", err)
	}
	defer rows.Close()

	out := []models.TrackFeatures{}
	for rows.Next() {
		f, err := scanFeatures(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan track features: %w", err)
		}
		out = append(out, *f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate track features: %w", err)
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanFeatures(s rowScanner) (*models.TrackFeatures, error) {
	var (
		f                                  models.TrackFeatures
		startTime, endTime, areaID         sql.NullString
		curvature, terrain                 sql.NullString
		hour, weekday                      sql.NullInt64
		startLat, startLon, endLat, endLon sql.NullFloat64
		total, straight, sinuosity         sql.NullFloat64
		gain, loss, perKm                  sql.NullFloat64
		elapsed, moving, stopped           sql.NullInt64
		avgSpeed, maxSpeed                 sql.NullFloat64
		computedAt                         string
	)
	err := s.Scan(
		&f.TrackID, &f.UserID,
		&startTime, &endTime, &hour, &weekday,
		&startLat, &startLon, &endLat, &endLon, &areaID,
		&total, &straight, &sinuosity, &curvature,
		&gain, &loss, &perKm, &terrain,
		&elapsed, &moving, &stopped, &avgSpeed, &maxSpeed,
		&f.FeaturesVersion, &computedAt, &f.SourceFormat,
	)
	if err != nil {
		return nil, err
	}

	if f.StartTime, err = timePtr(startTime); err != nil {
		return nil, err
	}
	if f.EndTime, err = timePtr(endTime); err != nil {
		return nil, err
	}
	if f.ComputedAt, err = parseTime(computedAt); err != nil {
		return nil, err
	}

	f.StartHourOfDay = intPtr(hour)
	f.DayOfWeek = intPtr(weekday)
	f.StartLatitude = floatPtr(startLat)
	f.StartLongitude = floatPtr(startLon)
	f.EndLatitude = floatPtr(endLat)
	f.EndLongitude = floatPtr(endLon)
	f.StartAreaID = stringPtr[string](areaID)
	f.TotalDistanceKm = floatPtr(total)
	f.StraightLineDistanceKm = floatPtr(straight)
	f.SinuosityRatio = floatPtr(sinuosity)
	f.RouteCurvature = stringPtr[models.RouteCurvature](curvature)
	f.ElevationGainM = floatPtr(gain)
	f.ElevationLossM = floatPtr(loss)
	f.GainPerKm = floatPtr(perKm)
	f.Terrain = stringPtr[models.TerrainCategory](terrain)
	f.ElapsedSeconds = int64Ptr(elapsed)
	f.MovingSeconds = int64Ptr(moving)
	f.StoppedSeconds = int64Ptr(stopped)
	f.AvgSpeedKmh = floatPtr(avgSpeed)
	f.MaxSpeedKmh = floatPtr(maxSpeed)

	return &f, nil
}
