package models

// FeatureProfile is a feature record with every numeric field widened to float64.
// It represents either a single track or the average of a user's tracks, where
// hour-of-day and weekday may be fractional.
type FeatureProfile struct {
	StartHourOfDay         *float64 `json:"start_hour_of_day,omitempty"`
	DayOfWeek              *float64 `json:"day_of_week,omitempty"`
	StartLatitude          *float64 `json:"start_latitude,omitempty"`
	StartLongitude         *float64 `json:"start_longitude,omitempty"`
	EndLatitude            *float64 `json:"end_latitude,omitempty"`
	EndLongitude           *float64 `json:"end_longitude,omitempty"`
	TotalDistanceKm        *float64 `json:"total_distance_km,omitempty"`
	StraightLineDistanceKm *float64 `json:"straight_line_distance_km,omitempty"`
	SinuosityRatio         *float64 `json:"sinuosity_ratio,omitempty"`
	ElevationGainM         *float64 `json:"elevation_gain_m,omitempty"`
	ElevationLossM         *float64 `json:"elevation_loss_m,omitempty"`
	GainPerKm              *float64 `json:"gain_per_km,omitempty"`
	ElapsedSeconds         *float64 `json:"elapsed_seconds,omitempty"`
	MovingSeconds          *float64 `json:"moving_seconds,omitempty"`
	StoppedSeconds         *float64 `json:"stopped_seconds,omitempty"`
	AvgSpeedKmh            *float64 `json:"avg_speed_kmh,omitempty"`
	MaxSpeedKmh            *float64 `json:"max_speed_kmh,omitempty"`

	RouteCurvature *RouteCurvature  `json:"route_curvature,omitempty"`
	Terrain        *TerrainCategory `json:"terrain,omitempty"`

	// TrackCount is the number of records the profile was built from
	TrackCount int `json:"track_count"`
}

// VectorSize is the fixed length of a FeatureVector
const VectorSize = 13

// FeatureVector is the normalized similarity-search encoding of a profile.
type FeatureVector [VectorSize]float64

// Slice returns the vector as a slice
func (v FeatureVector) Slice() []float64 {
	out := make([]float64, VectorSize)
	copy(out, v[:])
	return out
}
