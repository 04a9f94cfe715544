package models

import "time"

// FeaturesVersion is the schema version written into every TrackFeatures record.
// Bump it when the extraction algorithm changes so stale records get reindexed.
const FeaturesVersion = 1

// RouteCurvature buckets the sinuosity ratio of a route
type RouteCurvature string

// Route curvature categories
const (
	CurvatureStraight RouteCurvature = "straight"
	CurvatureMixed    RouteCurvature = "mixed"
	CurvatureCurvy    RouteCurvature = "curvy"
)

// TerrainCategory buckets elevation gain per kilometer
type TerrainCategory string

// Terrain categories
const (
	TerrainFlat    TerrainCategory = "flat"
	TerrainRolling TerrainCategory = "rolling"
	TerrainHilly   TerrainCategory = "hilly"
)

// TrackFeatures is the derived, versioned feature record of one track.
// Nil pointers mean the value could not be computed from the input.
type TrackFeatures struct {
	TrackID string `json:"track_id" db:"track_id"`
	UserID  int64  `json:"user_id" db:"user_id"`

	// Temporal (UTC)
	StartTime      *time.Time `json:"start_time,omitempty" db:"start_time"`
	EndTime        *time.Time `json:"end_time,omitempty" db:"end_time"`
	StartHourOfDay *int       `json:"start_hour_of_day,omitempty" db:"start_hour_of_day"` // 0-23
	DayOfWeek      *int       `json:"day_of_week,omitempty" db:"day_of_week"`             // 0=Mon..6=Sun

	// Spatial
	StartLatitude  *float64 `json:"start_latitude,omitempty" db:"start_latitude"`
	StartLongitude *float64 `json:"start_longitude,omitempty" db:"start_longitude"`
	EndLatitude    *float64 `json:"end_latitude,omitempty" db:"end_latitude"`
	EndLongitude   *float64 `json:"end_longitude,omitempty" db:"end_longitude"`
	StartAreaID    *string  `json:"start_area_id,omitempty" db:"start_area_id"`

	// Distance and shape
	TotalDistanceKm        *float64        `json:"total_distance_km,omitempty" db:"total_distance_km"`
	StraightLineDistanceKm *float64        `json:"straight_line_distance_km,omitempty" db:"straight_line_distance_km"`
	SinuosityRatio         *float64        `json:"sinuosity_ratio,omitempty" db:"sinuosity_ratio"`
	RouteCurvature         *RouteCurvature `json:"route_curvature,omitempty" db:"route_curvature"`

	// Elevation
	ElevationGainM *float64         `json:"elevation_gain_m,omitempty" db:"elevation_gain_m"`
	ElevationLossM *float64         `json:"elevation_loss_m,omitempty" db:"elevation_loss_m"`
	GainPerKm      *float64         `json:"gain_per_km,omitempty" db:"gain_per_km"`
	Terrain        *TerrainCategory `json:"terrain,omitempty" db:"terrain"`

	// Duration and speed
	ElapsedSeconds *int64   `json:"elapsed_seconds,omitempty" db:"elapsed_seconds"`
	MovingSeconds  *int64   `json:"moving_seconds,omitempty" db:"moving_seconds"`
	StoppedSeconds *int64   `json:"stopped_seconds,omitempty" db:"stopped_seconds"`
	AvgSpeedKmh    *float64 `json:"avg_speed_kmh,omitempty" db:"avg_speed_kmh"`
	MaxSpeedKmh    *float64 `json:"max_speed_kmh,omitempty" db:"max_speed_kmh"`

	// Metadata
	FeaturesVersion int       `json:"features_version" db:"features_version"`
	ComputedAt      time.Time `json:"computed_at" db:"computed_at"`
	SourceFormat    string    `json:"source_format" db:"source_format"`
}

// Profile converts the record into the all-float form consumed by the vectorizer.
func (f TrackFeatures) Profile() FeatureProfile {
	return FeatureProfile{
		StartHourOfDay:         intToFloat(f.StartHourOfDay),
		DayOfWeek:              intToFloat(f.DayOfWeek),
		StartLatitude:          f.StartLatitude,
		StartLongitude:         f.StartLongitude,
		EndLatitude:            f.EndLatitude,
		EndLongitude:           f.EndLongitude,
		TotalDistanceKm:        f.TotalDistanceKm,
		StraightLineDistanceKm: f.StraightLineDistanceKm,
		SinuosityRatio:         f.SinuosityRatio,
		ElevationGainM:         f.ElevationGainM,
		ElevationLossM:         f.ElevationLossM,
		GainPerKm:              f.GainPerKm,
		ElapsedSeconds:         int64ToFloat(f.ElapsedSeconds),
		MovingSeconds:          int64ToFloat(f.MovingSeconds),
		StoppedSeconds:         int64ToFloat(f.StoppedSeconds),
		AvgSpeedKmh:            f.AvgSpeedKmh,
		MaxSpeedKmh:            f.MaxSpeedKmh,
		RouteCurvature:         f.RouteCurvature,
		Terrain:                f.Terrain,
		TrackCount:             1,
	}
}

func intToFloat(v *int) *float64 {
	if v == nil {
		return nil
	}
	return Float(float64(*v))
}

func int64ToFloat(v *int64) *float64 {
	if v == nil {
		return nil
	}
	return Float(float64(*v))
}
